package errs

import "errors"

var (
	StudentNotFound    = errors.New("student not found")
	AssignmentNotFound = errors.New("assignment spec not found")
	SubmissionNotFound = errors.New("submission not found")
)
