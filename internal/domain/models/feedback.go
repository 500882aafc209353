package models

import "time"

// Rating bounds accepted by the feedback form.
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback worksheet columns.
const (
	ColSubmittedAt  = "Submitted At"
	ColCustomerName = "Customer Name"
	ColRating       = "Rating"
	ColFeedback     = "Feedback"
)

// FeedbackColumns is the fixed header row of the feedback store.
var FeedbackColumns = []string{ColSubmittedAt, ColCustomerName, ColRating, ColOutlet, ColFeedback}

// FeedbackRecord captures one customer comment collected at an outlet.
type FeedbackRecord struct {
	SubmittedAt  time.Time
	CustomerName string
	Rating       int
	Outlet       string
	Text         string
}

// Row renders the record in FeedbackColumns order.
func (r FeedbackRecord) Row() Row {
	return Row{
		{ColSubmittedAt, r.SubmittedAt.Format(TimestampLayout)},
		{ColCustomerName, r.CustomerName},
		{ColRating, r.Rating},
		{ColOutlet, r.Outlet},
		{ColFeedback, r.Text},
	}
}
