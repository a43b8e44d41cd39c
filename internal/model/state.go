package model

// SubmissionState is the owned state of one form submission. Transitions return
// a new value; nothing here is shared between submissions.
type SubmissionState struct {
	Form     EventRequest     `json:"form"`
	Loading  bool             `json:"loading"`
	Snapshot *WeatherSnapshot `json:"snapshot,omitempty"`
}

// Begin replaces the form and marks the state busy. The previous snapshot is discarded.
func (s SubmissionState) Begin(form EventRequest) SubmissionState {
	return SubmissionState{Form: form, Loading: true}
}

func (s SubmissionState) Resolve(snapshot WeatherSnapshot) SubmissionState {
	s.Loading = false
	s.Snapshot = &snapshot
	return s
}
