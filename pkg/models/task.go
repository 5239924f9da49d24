package models

// Task is a single to-do entry. The id is assigned by the database on insert
// and never changes afterwards.
type Task struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"type:varchar(255);not null" json:"title"`
}

// TableName pins the table name used by the schema bootstrap and queries.
func (Task) TableName() string {
	return "tasks"
}

// CreateTaskRequest is the body accepted by POST /tasks
type CreateTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ServiceInfo is the static payload served at the API root
type ServiceInfo struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// HealthStatus reports whether the database is reachable
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
