package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MASTER_ADMIN, SECURITY, ...
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleMasterAdmin         = "MASTER_ADMIN"
	RoleAdmin               = "ADMIN"
	RoleSecurity            = "SECURITY"
	RoleWeighbridgeOperator = "WEIGHBRIDGE_OPERATOR"
	RoleStoreOfficer        = "STORE_OFFICER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Administrative access without user management",
	},
	{
		Code:        RoleSecurity,
		Name:        "Security Guard",
		Description: "Gate registration and trip gate stages",
	},
	{
		Code:        RoleWeighbridgeOperator,
		Name:        "Weighbridge Operator",
		Description: "Weight capture and weighbridge trip stages",
	},
	{
		Code:        RoleStoreOfficer,
		Name:        "Store Officer",
		Description: "Unloading verification and purchase order receipts",
	},
}

// RolePrivilegeCodes maps each non-admin role to the privileges it is
// seeded with. MASTER_ADMIN gets everything; ADMIN gets everything except
// user management.
var RolePrivilegeCodes = map[string][]string{
	RoleSecurity: {
		"vehicle:register", "vehicle:view", "driver:view",
		"trip:view", "trip:create", "trip:advance",
	},
	RoleWeighbridgeOperator: {
		"trip:view", "trip:advance",
		"weight:view", "weight:capture",
		"dashboard:view",
	},
	RoleStoreOfficer: {
		"trip:view", "trip:advance",
		"unloading:view", "unloading:verify",
		"po:view", "po:update",
		"dashboard:view",
	},
}
