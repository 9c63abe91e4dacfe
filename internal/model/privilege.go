package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "trip:advance"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Advance Trip Stage"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Gate registration
	{Code: "vehicle:register", Name: "Register Vehicle and Driver"},
	{Code: "vehicle:view", Name: "View Vehicle"},
	{Code: "vehicle:approve", Name: "Approve or Reject Vehicle"},
	{Code: "driver:view", Name: "View Driver"},
	{Code: "driver:approve", Name: "Approve or Reject Driver"},
	// Trip lifecycle
	{Code: "trip:view", Name: "View Trip"},
	{Code: "trip:create", Name: "Create Trip"},
	{Code: "trip:advance", Name: "Advance Trip Stage"},
	{Code: "trip:fail", Name: "Fail Trip"},
	// Weighbridge
	{Code: "weight:view", Name: "View Weight"},
	{Code: "weight:capture", Name: "Capture Weight"},
	// Unloading
	{Code: "unloading:view", Name: "View Unloading"},
	{Code: "unloading:verify", Name: "Verify Unloading"},
	// Purchase orders
	{Code: "po:view", Name: "View Purchase Order"},
	{Code: "po:create", Name: "Create Purchase Order"},
	{Code: "po:update", Name: "Update Purchase Order"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
