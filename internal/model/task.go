package model

// Task is the domain model for a task list entry.
// The id is assigned by whoever creates the task first and never changes.
type Task struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// TaskKey is the store key function for tasks.
func TaskKey(t Task) int64 { return t.ID }

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}.
type UpdateTaskRequest struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// ErrorBody is the JSON shape of every API error response.
type ErrorBody struct {
	Message string `json:"message"`
}

// OpenCount returns how many tasks are not done yet.
func OpenCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Done {
			n++
		}
	}
	return n
}

// CloneTasks returns a copy of tasks that shares no memory with the input.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return []Task{}
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
