package models

// StudentProfile is the read-only mirror of a student directory entry.
// The directory provider owns the record; this service only resolves ids.
type StudentProfile struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Active   bool   `db:"active" json:"active"`
}

// StaffProfile is the read-only mirror of a staff directory entry.
type StaffProfile struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Active   bool   `db:"active" json:"active"`
}
