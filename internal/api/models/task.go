package models

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID      int64  `db:"id" json:"id"`
	Text    string `db:"text" json:"text"`
	Done    bool   `db:"done" json:"done"`
	OwnerID int64  `db:"owner_id" json:"owner_id"`
}

// CreateTaskRequest defines the form fields used to add a task.
type CreateTaskRequest struct {
	Text string `form:"task" validate:"required,nonul,max=200"`
}
