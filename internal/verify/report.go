package verify

// Report collects the non-matching classifications of a verification run in manifest order.
type Report struct {
	ManifestName string
	Mismatches   []Classification
	Unknowns     []Classification
	Missing      []Classification
	MatchedCount int
}

// Record files a classification under its kind.
func (report *Report) Record(classification Classification) {
	switch classification.Kind {
	case ClassificationMatch:
		report.MatchedCount++
	case ClassificationMismatch:
		report.Mismatches = append(report.Mismatches, classification)
	case ClassificationUnknown:
		report.Unknowns = append(report.Unknowns, classification)
	case ClassificationMissing:
		report.Missing = append(report.Missing, classification)
	}
}

// Failed reports whether any entry did not match.
func (report Report) Failed() bool {
	return len(report.Mismatches) > 0 || len(report.Unknowns) > 0 || len(report.Missing) > 0
}

// ExitCode returns 1 when any entry did not match, otherwise 0.
func (report Report) ExitCode() int {
	if report.Failed() {
		return ExitCodeVerificationFailed
	}
	return ExitCodeSuccess
}
