package courses

// IDColumn is the CSV header naming the course id column.
const IDColumn = "id"

// Course is a single crawlable course.
type Course struct {
	// ID is the platform course id handed to the recorder.
	ID uint32
}
