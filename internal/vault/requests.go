package vault

import (
	"errors"
	"fmt"
	"strings"
)

// Request is one entry of a batch credential request.
type Request struct {
	Name        string
	Description string
	Optional    bool
	HelpURL     string
	Kind        Kind
	Validate    bool
}

// RequestFailure records one required request that could not be
// satisfied.
type RequestFailure struct {
	Name      string
	Err       error
	Cancelled bool
}

// BatchReport is the outcome of HandleRequests. The batch succeeds
// only when no required request failed; optional failures are skipped.
type BatchReport struct {
	Values   map[string]string
	Skipped  []string
	Failures []RequestFailure
}

// OK reports whether the batch succeeded.
func (r *BatchReport) OK() bool {
	return len(r.Failures) == 0
}

// Err summarizes the required-request failures, or nil when the batch
// succeeded.
func (r *BatchReport) Err() error {
	if r.OK() {
		return nil
	}
	parts := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Name, f.Err)
	}
	return fmt.Errorf("%d required credential(s) unavailable: %s", len(r.Failures), strings.Join(parts, "; "))
}

// HandleRequests processes a batch of credential requests. A failing
// optional request is skipped silently; failing required requests
// accumulate into the report.
func (m *Manager) HandleRequests(requests []Request) *BatchReport {
	report := &BatchReport{Values: make(map[string]string)}

	for _, req := range requests {
		acq := &AcquisitionRequest{
			Description: req.Description,
			Optional:    req.Optional,
			HelpURL:     req.HelpURL,
		}
		opts := GetOptions{
			Validate:         req.Validate,
			Kind:             req.Kind,
			AllowAcquisition: true,
		}

		value, err := m.Get(req.Name, acq, opts)
		if err != nil {
			if req.Optional {
				m.logger.Debug("skipping optional credential", "credential", req.Name, "error", err)
				report.Skipped = append(report.Skipped, req.Name)
				continue
			}
			report.Failures = append(report.Failures, RequestFailure{
				Name:      req.Name,
				Err:       err,
				Cancelled: errors.Is(err, ErrAcquisitionCancelled),
			})
			continue
		}
		report.Values[req.Name] = value
	}

	return report
}
