package models

// AuthView is the data handed to the login and registration templates.
type AuthView struct {
	Flashes []string
}

// IndexView is the data handed to the task list template.
type IndexView struct {
	Login     string
	Tasks     []Task
	OpenCount int
	DoneCount int
	Flashes   []string
}

// NewIndexView builds the task list view for the given user.
func NewIndexView(login string, tasks []Task, flashes []string) IndexView {
	view := IndexView{Login: login, Tasks: tasks, Flashes: flashes}
	for _, t := range tasks {
		if t.Done {
			view.DoneCount++
		} else {
			view.OpenCount++
		}
	}
	return view
}

// ErrorView is the data handed to the error template.
type ErrorView struct {
	Code    int
	Message string
}
