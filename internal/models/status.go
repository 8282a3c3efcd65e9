package models

import "strings"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusWaiting    = "waiting"
	StatusActive     = "active"
	StatusExpired    = "expired"
	StatusCalled     = "called"
)

var TokenStatuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

var PassengerStatuses = []string{StatusWaiting, StatusInProgress, StatusCompleted}

func ValidTokenStatus(status string) bool {
	for _, candidate := range TokenStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// Tone is the visual treatment of a status chip.
type Tone string

const (
	ToneDefault Tone = "default"
	TonePrimary Tone = "primary"
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

var statusTones = map[string]Tone{
	StatusPending:    ToneWarning,
	StatusWaiting:    ToneWarning,
	StatusInProgress: ToneInfo,
	StatusCalled:     ToneInfo,
	StatusCompleted:  ToneSuccess,
	StatusCancelled:  ToneError,
	StatusExpired:    ToneError,
	StatusActive:     TonePrimary,
}

// ToneFor never fails: statuses outside the known set get ToneDefault.
func ToneFor(status string) Tone {
	if tone, ok := statusTones[status]; ok {
		return tone
	}
	return ToneDefault
}

// StatusLabel turns "in_progress" into "IN PROGRESS".
func StatusLabel(status string) string {
	if status == "" {
		return "-"
	}
	return strings.ToUpper(strings.ReplaceAll(status, "_", " "))
}
