package outbox

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// FailedChecksSignature reduces a result list to the sorted set of
// "<functionName>:<testIndex>" keys for failed cases, so two gradings with
// the same failures produce the same string regardless of result order
func FailedChecksSignature(results []domain.TestResult) string {
	keys := make([]string, 0)
	for _, r := range results {
		if !r.Passed {
			keys = append(keys, fmt.Sprintf("%s:%d", r.FunctionName, r.TestIndex))
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// EmailSignature digests (score, maxScore, failed checks) into the stable
// idempotency key that dedupes report jobs
func EmailSignature(score, maxScore int, failedChecks string) string {
	base := fmt.Sprintf("%d/%d|%s", score, maxScore, failedChecks)
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

// SubmissionSignature computes the current signature of a submission's grade
func SubmissionSignature(sub *domain.Submission) string {
	return EmailSignature(sub.Score, sub.MaxScore, FailedChecksSignature(sub.Results))
}
