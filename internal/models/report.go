package models

// CourseReportRow aggregates enrollment figures for one course. Capacity
// utilization is activeCount / maxCapacity * 100 rounded to two decimals,
// and 0 when maxCapacity is 0.
type CourseReportRow struct {
	CourseID            int64   `json:"courseId"`
	CourseTitle         string  `json:"courseTitle"`
	CourseCode          string  `json:"courseCode"`
	MaxCapacity         int     `json:"maxCapacity"`
	TotalEnrollments    int     `json:"totalEnrollments"`
	ActiveCount         int     `json:"activeCount"`
	CompletedCount      int     `json:"completedCount"`
	DroppedCount        int     `json:"droppedCount"`
	PendingCount        int     `json:"pendingCount"`
	CapacityUtilization float64 `json:"capacityUtilization"`
}
