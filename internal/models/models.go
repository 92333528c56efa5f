package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrProjectNotFound is returned by project stores when no project has the given ID.
var ErrProjectNotFound = errors.New("project not found")

// Relationship describes how the letter writer relates to the recipient.
type Relationship string

const (
	RelationshipBeloved      Relationship = "beloved"
	RelationshipNeutral      Relationship = "neutral"
	RelationshipHated        Relationship = "hated"
	RelationshipProfessional Relationship = "professional"
	RelationshipPolite       Relationship = "polite"
	RelationshipEstranged    Relationship = "estranged"
	RelationshipSecret       Relationship = "secret"
)

// Valid reports whether r is one of the known relationships.
func (r Relationship) Valid() bool {
	switch r {
	case RelationshipBeloved, RelationshipNeutral, RelationshipHated, RelationshipProfessional,
		RelationshipPolite, RelationshipEstranged, RelationshipSecret:
		return true
	}
	return false
}

// Tone is the emotional register of the letter and its reading.
type Tone string

const (
	ToneDramatic    Tone = "dramatic"
	ToneHumor       Tone = "humor"
	ToneDry         Tone = "dry"
	ToneMelancholic Tone = "melancholic"
	ToneAngry       Tone = "angry"
	ToneHopeful     Tone = "hopeful"
)

// Valid reports whether t is one of the known tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneDramatic, ToneHumor, ToneDry, ToneMelancholic, ToneAngry, ToneHopeful:
		return true
	}
	return false
}

// ProjectInput holds the user-authored fields of a project
type ProjectInput struct {
	Target       string       `json:"target"`
	Relationship Relationship `json:"relationship"`
	Tone         Tone         `json:"tone"`
	Topic        string       `json:"topic"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (in ProjectInput) Normalize() ProjectInput {
	in.Target = strings.TrimSpace(in.Target)
	in.Topic = strings.TrimSpace(in.Topic)
	return in
}

// Validate checks required fields and enum membership.
func (in ProjectInput) Validate() error {
	if strings.TrimSpace(in.Target) == "" {
		return fmt.Errorf("target is required")
	}
	if strings.TrimSpace(in.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if !in.Relationship.Valid() {
		return fmt.Errorf("invalid relationship: %q", in.Relationship)
	}
	if !in.Tone.Valid() {
		return fmt.Errorf("invalid tone: %q", in.Tone)
	}
	return nil
}

// Project is a letter premise plus its generated artifacts
type Project struct {
	ID           uuid.UUID    `json:"id"`
	Target       string       `json:"target"`
	Relationship Relationship `json:"relationship"`
	Tone         Tone         `json:"tone"`
	Topic        string       `json:"topic"`

	Script        *string  `json:"script,omitempty"`
	Tagline       *string  `json:"tagline,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
	AudioData     *string  `json:"audio_data,omitempty"` // base64 PCM, 16-bit signed LE, mono, 24kHz

	CreatedAt time.Time `json:"created_at"`
}

// Input returns the user-authored fields of the project.
func (p *Project) Input() ProjectInput {
	return ProjectInput{
		Target:       p.Target,
		Relationship: p.Relationship,
		Tone:         p.Tone,
		Topic:        p.Topic,
	}
}

// HasScript reports whether a non-empty script has been generated.
func (p *Project) HasScript() bool {
	return p.Script != nil && *p.Script != ""
}

// ProjectUpdate is a partial update. Nil fields are left untouched; Tags is replaced wholesale when non-nil.
type ProjectUpdate struct {
	Target       *string       `json:"target,omitempty"`
	Relationship *Relationship `json:"relationship,omitempty"`
	Tone         *Tone         `json:"tone,omitempty"`
	Topic        *string       `json:"topic,omitempty"`

	Script        *string  `json:"script,omitempty"`
	Tagline       *string  `json:"tagline,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
	AudioData     *string  `json:"audio_data,omitempty"`
}

// Apply writes the non-nil fields of u onto p.
func (u *ProjectUpdate) Apply(p *Project) {
	if u.Target != nil {
		p.Target = *u.Target
	}
	if u.Relationship != nil {
		p.Relationship = *u.Relationship
	}
	if u.Tone != nil {
		p.Tone = *u.Tone
	}
	if u.Topic != nil {
		p.Topic = *u.Topic
	}
	if u.Script != nil {
		p.Script = u.Script
	}
	if u.Tagline != nil {
		p.Tagline = u.Tagline
	}
	if u.Tags != nil {
		p.Tags = append([]string{}, u.Tags...)
	}
	if u.CoverImageURL != nil {
		p.CoverImageURL = u.CoverImageURL
	}
	if u.AudioData != nil {
		p.AudioData = u.AudioData
	}
}

// GeneratedPackage is the normalized result of a text-generation call
type GeneratedPackage struct {
	Script  string   `json:"script"`
	Tagline string   `json:"tagline"`
	Tags    []string `json:"tags"`
}

// NotificationLevel mirrors the toast styles of the studio UI.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Notification is a user-facing, non-leaking status message
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	ProjectID *uuid.UUID        `json:"project_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ExportResponse lists where exported assets can be fetched
type ExportResponse struct {
	ProjectID uuid.UUID `json:"project_id"`
	CoverURL  string    `json:"cover_url,omitempty"`
	AudioURL  string    `json:"audio_url,omitempty"`
}

// Generation event names published after each orchestrator run.
const (
	EventEpisodeGenerated = "episode_generated"
	EventAudioGenerated   = "audio_generated"
	EventGenerationFailed = "generation_failed"
)

// GenerationEvent is the outcome record published to the events topic
type GenerationEvent struct {
	ProjectID  uuid.UUID `json:"project_id"`
	Event      string    `json:"event"`
	Outcome    string    `json:"outcome,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
