package models

// Task represents a task whose address still needs a distance from the origin.
type Task struct {
	ID      int    // ID is the unique identifier for the task.
	Address string // Address is the location to be geocoded.
}
