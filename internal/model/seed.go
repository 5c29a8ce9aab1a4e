package model

// DefaultColumns returns the standard six-stage workflow with no tasks.
func DefaultColumns() []Column {
	return []Column{
		{ID: "column-0", Title: "Backlog"},
		{ID: "column-1", Title: "To Do", Role: RoleIntake},
		{ID: "column-2", Title: "In Progress"},
		{ID: "column-3", Title: "Review"},
		{ID: "column-4", Title: "Done", Role: RoleDone},
		{ID: "column-5", Title: "Archived", Role: RoleArchive},
	}
}

// EmptyBoard returns the default columns with no tasks or labels.
func EmptyBoard() *Board {
	return NewBoard(DefaultColumns()...)
}

type seedTask struct {
	task   Task
	offset int
}

// SeedBoard returns the sample board a fresh installation starts with. Due
// dates are relative to today.
func SeedBoard(today Date) *Board {
	b := EmptyBoard()

	for _, l := range []Label{
		{ID: "label-1", Name: "Frontend", Color: "#3b82f6"},
		{ID: "label-2", Name: "Backend", Color: "#10b981"},
		{ID: "label-3", Name: "Design", Color: "#8b5cf6"},
		{ID: "label-4", Name: "Bug", Color: "#ef4444"},
		{ID: "label-5", Name: "Feature", Color: "#f59e0b"},
		{ID: "label-6", Name: "Documentation", Color: "#6366f1"},
	} {
		b.Labels[l.ID] = l
	}

	for _, s := range []seedTask{
		{Task{ID: "task-1", Title: "Create project plan", Description: "Outline the project goals, milestones, and timeline for the next quarter", Priority: PriorityHigh, Reminder: true, Labels: []string{"label-5", "label-6"}}, 3},
		{Task{ID: "task-2", Title: "Design mockups", Description: "Create UI/UX designs for the main screens of the mobile application", Priority: PriorityMedium, Reminder: true, Labels: []string{"label-3"}}, 5},
		{Task{ID: "task-3", Title: "Setup development environment", Description: "Install necessary tools and dependencies for the new project", Priority: PriorityLow, Labels: []string{"label-1", "label-2"}}, 1},
		{Task{ID: "task-4", Title: "Client meeting preparation", Description: "Prepare presentation slides and demo for the upcoming client meeting", Priority: PriorityHigh, Reminder: true, Labels: []string{"label-5"}}, 2},
		{Task{ID: "task-5", Title: "Update documentation", Description: "Update the API documentation with the latest changes and examples", Priority: PriorityMedium, Reminder: true, Labels: []string{"label-6", "label-2"}}, 4},
		{Task{ID: "task-6", Title: "Code review", Description: "Review pull requests and provide feedback to team members", Priority: PriorityHigh, Reminder: true, Labels: []string{"label-1", "label-2"}}, 1},
		{Task{ID: "task-7", Title: "Bug fixes for release", Description: "Address critical bugs before the upcoming release", Priority: PriorityHigh, Reminder: true, Labels: []string{"label-4", "label-1"}}, 2},
		{Task{ID: "task-8", Title: "Team retrospective", Description: "Facilitate team retrospective meeting for the last sprint", Priority: PriorityMedium, Labels: []string{}}, 6},
		{Task{ID: "task-9", Title: "Performance optimization", Description: "Identify and fix performance bottlenecks in the application", Priority: PriorityMedium, Reminder: true, Labels: []string{"label-1", "label-2"}}, 7},
		{Task{ID: "task-10", Title: "User testing session", Description: "Conduct user testing session with the prototype and gather feedback", Priority: PriorityHigh, Reminder: true, Labels: []string{"label-3", "label-5"}}, 4},
		{Task{ID: "task-11", Title: "Update dependencies", Description: "Update project dependencies to the latest versions and test compatibility", Priority: PriorityLow, Labels: []string{"label-1", "label-2"}}, 10},
		{Task{ID: "task-12", Title: "Create marketing materials", Description: "Design and create marketing materials for the product launch", Priority: PriorityMedium, Reminder: true, Labels: []string{"label-3", "label-5"}}, 8},
		{Task{ID: "task-13", Title: "Quarterly budget review", Description: "Review and adjust the quarterly budget based on current expenses", Priority: PriorityHigh, Reminder: true, Labels: []string{}}, 5},
		{Task{ID: "task-14", Title: "Research new technologies", Description: "Research emerging technologies that could benefit our product roadmap", Priority: PriorityMedium, Labels: []string{"label-2"}}, 15},
		{Task{ID: "task-15", Title: "Competitor analysis", Description: "Analyze competitor products and identify opportunities for differentiation", Priority: PriorityHigh, Reminder: true, Labels: []string{"label-5"}}, 7},
		{Task{ID: "task-16", Title: "Security audit", Description: "Conduct a security audit of the application and address any vulnerabilities", Priority: PriorityHigh, Reminder: true, Labels: []string{"label-2", "label-4"}}, -2},
	} {
		due := today.AddDays(s.offset)
		s.task.DueDate = &due
		b.Tasks[s.task.ID] = s.task
	}

	place := map[string][]string{
		"column-0": {"task-14", "task-15"},
		"column-1": {"task-1", "task-2", "task-3", "task-8", "task-11", "task-12", "task-13"},
		"column-2": {"task-4", "task-6", "task-7", "task-10"},
		"column-3": {"task-9", "task-16"},
		"column-4": {"task-5"},
	}
	for cid, ids := range place {
		c := b.Columns[cid]
		c.TaskIDs = ids
		b.Columns[cid] = c
	}
	return b
}
