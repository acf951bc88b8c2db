package dto

type CreateTaskRequest struct {
	Title          string `json:"title" binding:"required"`
	DueTime        string `json:"due_time" binding:"required"`
	Priority       string `json:"priority" binding:"required"`
	SingleReminder bool   `json:"single_reminder"`
	HoursBefore    *int   `json:"hours_before"`
	PhoneNumber    string `json:"phone_number"`
}

type UpdateDueTimeRequest struct {
	DueTime string `json:"due_time" binding:"required"`
}
