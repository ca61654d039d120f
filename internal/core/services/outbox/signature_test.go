package outbox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

func TestFailedChecksSignature(t *testing.T) {
	results := []domain.TestResult{
		{FunctionName: "divide", TestIndex: 2, Passed: false},
		{FunctionName: "add", TestIndex: 0, Passed: true},
		{FunctionName: "add", TestIndex: 1, Passed: false},
	}

	assert.Equal(t, "add:1|divide:2", FailedChecksSignature(results))
}

func TestFailedChecksSignatureOrderIndependent(t *testing.T) {
	a := []domain.TestResult{
		{FunctionName: "f", TestIndex: 0},
		{FunctionName: "g", TestIndex: 3},
	}
	b := []domain.TestResult{
		{FunctionName: "g", TestIndex: 3},
		{FunctionName: "f", TestIndex: 0},
	}

	assert.Equal(t, FailedChecksSignature(a), FailedChecksSignature(b))
}

func TestFailedChecksSignatureAllPassed(t *testing.T) {
	results := []domain.TestResult{
		{FunctionName: "add", TestIndex: 0, Passed: true},
	}
	assert.Equal(t, "", FailedChecksSignature(results))
}

func TestEmailSignatureStable(t *testing.T) {
	sig1 := EmailSignature(5, 8, "add:1|divide:2")
	sig2 := EmailSignature(5, 8, "add:1|divide:2")

	assert.Equal(t, sig1, sig2)
	assert.Len(t, sig1, 64, "hex-encoded sha256")
}

func TestEmailSignatureDistinguishesGrades(t *testing.T) {
	base := EmailSignature(5, 8, "add:1")

	assert.NotEqual(t, base, EmailSignature(6, 8, "add:1"), "score changes the signature")
	assert.NotEqual(t, base, EmailSignature(5, 9, "add:1"), "maxScore changes the signature")
	assert.NotEqual(t, base, EmailSignature(5, 8, "add:2"), "failed set changes the signature")
}

func TestSubmissionSignature(t *testing.T) {
	sub := &domain.Submission{
		Score:    1,
		MaxScore: 2,
		Results: []domain.TestResult{
			{FunctionName: "add", TestIndex: 0, Passed: true},
			{FunctionName: "add", TestIndex: 1, Passed: false},
		},
	}

	assert.Equal(t, EmailSignature(1, 2, "add:1"), SubmissionSignature(sub))
}
