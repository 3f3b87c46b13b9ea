package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hostel Core API",
        "description": "Hostel management service: blocks, rooms, beds, allocations, complaints and leave requests",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Blocks", "description": "Hostel block management"},
        {"name": "Rooms", "description": "Room inventory, queries and bulk operations"},
        {"name": "Beds", "description": "Bed sets inside rooms"},
        {"name": "Allocations", "description": "Student bed allocation lifecycle"},
        {"name": "Complaints", "description": "Complaint lifecycle"},
        {"name": "Leaves", "description": "Leave request lifecycle"},
        {"name": "Exports", "description": "Occupancy report generation"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/blocks": {
            "get": {
                "tags": ["Blocks"],
                "summary": "List hostel blocks",
                "parameters": [
                    {"name": "school_id", "in": "query", "type": "string"},
                    {"name": "is_active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Blocks"],
                "summary": "Create hostel block",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBlockRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/blocks/{id}": {
            "get": {
                "tags": ["Blocks"],
                "summary": "Get block detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Blocks"],
                "summary": "Update block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBlockRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Blocks"],
                "summary": "Deactivate block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Block has active allocations"}
                }
            }
        },
        "/blocks/{id}/rooms/generate": {
            "post": {
                "tags": ["Blocks"],
                "summary": "Generate rooms for every floor of a block",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateRoomsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms with derived occupancy",
                "parameters": [
                    {"name": "block_id", "in": "query", "type": "string"},
                    {"name": "floor", "in": "query", "type": "integer"},
                    {"name": "room_type", "in": "query", "type": "string"},
                    {"name": "ac_type", "in": "query", "type": "string"},
                    {"name": "availability", "in": "query", "type": "string", "enum": ["empty", "partial", "full"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/filter-options": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Distinct values for room list filters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/available-for-booking": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Availability grouped per room type in booking preference order",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get room detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Rooms"],
                "summary": "Update room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Capacity below current occupancy"}
                }
            }
        },
        "/rooms/{id}/beds": {
            "get": {
                "tags": ["Beds"],
                "summary": "List beds of a room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Beds"],
                "summary": "Replace a room's bed set",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegenerateBedsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Requested bed count is below current occupancy"}
                }
            }
        },
        "/rooms/mass-update": {
            "post": {
                "tags": ["Rooms"],
                "summary": "Apply one patch to many rooms",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MassUpdateRoomsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/mass-update/beds": {
            "post": {
                "tags": ["Rooms"],
                "summary": "Regenerate bed sets across many rooms",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MassUpdateBedsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations": {
            "get": {
                "tags": ["Allocations"],
                "summary": "List allocations",
                "parameters": [
                    {"name": "block_id", "in": "query", "type": "string"},
                    {"name": "room_id", "in": "query", "type": "string"},
                    {"name": "bed_id", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "vacated", "transferred"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Allocations"],
                "summary": "Allocate a bed to a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AllocateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Bed occupied or student already allocated"}
                }
            }
        },
        "/allocations/{id}": {
            "get": {
                "tags": ["Allocations"],
                "summary": "Get allocation detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allocations/{id}/end": {
            "post": {
                "tags": ["Allocations"],
                "summary": "End an active allocation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/EndAllocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Allocation is not active"}
                }
            }
        },
        "/allocations/{id}/transfer": {
            "post": {
                "tags": ["Allocations"],
                "summary": "Transfer an active allocation to another bed",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransferRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Target bed occupied or allocation not active"}
                }
            }
        },
        "/complaints": {
            "get": {
                "tags": ["Complaints"],
                "summary": "List complaints",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "room_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["open", "in_progress", "resolved", "closed"]},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Complaints"],
                "summary": "File a complaint",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FileComplaintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/complaints/{id}": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Get complaint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/complaints/{id}/assign": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Assign complaint to a staff member",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignComplaintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Complaint is not open"}
                }
            }
        },
        "/complaints/{id}/resolve": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Resolve complaint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveComplaintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Complaint is closed or already resolved"}
                }
            }
        },
        "/complaints/{id}/close": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Close a resolved complaint",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Complaint is not resolved"}
                }
            }
        },
        "/leaves": {
            "get": {
                "tags": ["Leaves"],
                "summary": "List leave requests",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected", "returned"]},
                    {"name": "leave_type", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Leaves"],
                "summary": "Submit a leave request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitLeaveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlapping leave request exists"}
                }
            }
        },
        "/leaves/{id}": {
            "get": {
                "tags": ["Leaves"],
                "summary": "Get leave request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/leaves/{id}/approve": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Approve a pending leave request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecideLeaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Leave request is not pending"}
                }
            }
        },
        "/leaves/{id}/reject": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Reject a pending leave request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecideLeaveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Leave request is not pending"}
                }
            }
        },
        "/leaves/{id}/return": {
            "post": {
                "tags": ["Leaves"],
                "summary": "Record return from approved leave",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/MarkReturnedRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Leave request is not approved"}
                }
            }
        },
        "/exports/occupancy": {
            "post": {
                "tags": ["Exports"],
                "summary": "Generate an occupancy report",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a generated report by signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "CreateBlockRequest": {
            "type": "object",
            "properties": {
                "school_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "warden_id": {"type": "string"},
                "total_floors": {"type": "integer"},
                "floor_config": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["school_id", "name", "total_floors", "floor_config"]
        },
        "UpdateBlockRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "warden_id": {"type": "string"}
            }
        },
        "GenerateRoomsRequest": {
            "type": "object",
            "properties": {
                "room_type": {"type": "string"},
                "ac_type": {"type": "string"},
                "bed_type": {"type": "string"}
            },
            "required": ["room_type", "ac_type"]
        },
        "CreateRoomRequest": {
            "type": "object",
            "properties": {
                "block_id": {"type": "string"},
                "room_number": {"type": "string"},
                "room_type": {"type": "string"},
                "ac_type": {"type": "string"},
                "capacity": {"type": "integer"},
                "floor_number": {"type": "integer"},
                "amenities": {"type": "string"}
            },
            "required": ["block_id", "room_number", "room_type", "ac_type", "floor_number"]
        },
        "UpdateRoomRequest": {
            "type": "object",
            "properties": {
                "room_number": {"type": "string"},
                "patch": {"$ref": "#/definitions/RoomPatch"}
            }
        },
        "RoomPatch": {
            "type": "object",
            "properties": {
                "room_type": {"type": "string"},
                "ac_type": {"type": "string"},
                "capacity": {"type": "integer"},
                "amenities": {"type": "string"},
                "is_available": {"type": "boolean"}
            }
        },
        "RegenerateBedsRequest": {
            "type": "object",
            "properties": {
                "bed_count": {"type": "integer"},
                "bed_type": {"type": "string"}
            },
            "required": ["bed_count", "bed_type"]
        },
        "MassUpdateRoomsRequest": {
            "type": "object",
            "properties": {
                "room_ids": {"type": "array", "items": {"type": "string"}},
                "criteria": {"$ref": "#/definitions/MassUpdateCriteria"},
                "patch": {"$ref": "#/definitions/RoomPatch"}
            }
        },
        "MassUpdateBedsRequest": {
            "type": "object",
            "properties": {
                "room_ids": {"type": "array", "items": {"type": "string"}},
                "criteria": {"$ref": "#/definitions/MassUpdateCriteria"},
                "bed_count": {"type": "integer"},
                "bed_type": {"type": "string"}
            },
            "required": ["bed_count", "bed_type"]
        },
        "MassUpdateCriteria": {
            "type": "object",
            "properties": {
                "block_ids": {"type": "array", "items": {"type": "string"}},
                "floor_numbers": {"type": "array", "items": {"type": "integer"}},
                "room_type": {"type": "string"},
                "ac_type": {"type": "string"}
            }
        },
        "AllocateRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "bed_id": {"type": "string"},
                "allocation_date": {"type": "string", "format": "date-time"},
                "allocated_by": {"type": "string"},
                "payment_id": {"type": "string"},
                "fee_amount": {"type": "number"}
            },
            "required": ["student_id", "bed_id"]
        },
        "EndAllocationRequest": {
            "type": "object",
            "properties": {
                "vacation_date": {"type": "string", "format": "date-time"}
            }
        },
        "TransferRequest": {
            "type": "object",
            "properties": {
                "bed_id": {"type": "string"}
            },
            "required": ["bed_id"]
        },
        "FileComplaintRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "room_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "priority": {"type": "string"}
            },
            "required": ["student_id", "title", "description", "category", "priority"]
        },
        "AssignComplaintRequest": {
            "type": "object",
            "properties": {
                "assignee_id": {"type": "string"}
            },
            "required": ["assignee_id"]
        },
        "ResolveComplaintRequest": {
            "type": "object",
            "properties": {
                "resolver_id": {"type": "string"},
                "resolution_notes": {"type": "string"}
            },
            "required": ["resolution_notes"]
        },
        "SubmitLeaveRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "leave_type": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "expected_return_date": {"type": "string", "format": "date-time"},
                "reason": {"type": "string"},
                "emergency_contact": {"type": "string"},
                "destination": {"type": "string"}
            },
            "required": ["student_id", "leave_type", "start_date", "end_date", "reason"]
        },
        "DecideLeaveRequest": {
            "type": "object",
            "properties": {
                "decider_id": {"type": "string"},
                "decision_notes": {"type": "string"}
            }
        },
        "MarkReturnedRequest": {
            "type": "object",
            "properties": {
                "actual_return_date": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
