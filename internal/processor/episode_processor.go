package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/llm"
	"github.com/snappy-loop/dearme/internal/models"
)

// ErrNoScript is returned by GenerateAudio when the project has no script to read.
var ErrNoScript = errors.New("project has no script")

// Outcome classifies a successful episode generation.
type Outcome string

const (
	OutcomeComplete                   Outcome = "complete"
	OutcomeScriptUpdatedCoverFailed   Outcome = "script_updated_cover_failed"
	OutcomeScriptGeneratedCoverFailed Outcome = "script_generated_cover_failed"
)

// StageSave is the failure stage reported when a generated result cannot be stored.
const StageSave = "save"

// User-facing status messages.
const (
	MsgGenerationStarted = "Starting generation... this may take a moment."
	MsgEpisodeComplete   = "Episode generated successfully!"
	MsgCoverFailedUpdate = "Script updated, but cover art failed to generate."
	MsgCoverFailedNew    = "Script generated! (Cover art failed)"
	MsgScriptFailed      = "Failed to generate the script. Please check your API key and try again."
	MsgAudioStarted      = "Synthesizing audio reading..."
	MsgAudioComplete     = "Audio reading is ready!"
	MsgAudioFailed       = "Could not generate audio. Text might be too long."
)

// Message returns the notification text for o.
func (o Outcome) Message() string {
	switch o {
	case OutcomeScriptUpdatedCoverFailed:
		return MsgCoverFailedUpdate
	case OutcomeScriptGeneratedCoverFailed:
		return MsgCoverFailedNew
	default:
		return MsgEpisodeComplete
	}
}

// EpisodeResult is the stored project after a successful episode generation.
type EpisodeResult struct {
	Project *models.Project `json:"project"`
	Outcome Outcome         `json:"outcome"`
	Message string          `json:"message"`
}

// AudioResult is the stored project after a successful audio generation.
type AudioResult struct {
	Project *models.Project `json:"project"`
	Message string          `json:"message"`
}

// EpisodeProcessor runs generation for one project at a time per call.
// Overlapping calls for the same project are not serialized; the last write wins.
type EpisodeProcessor struct {
	projects  projectStore
	settings  settingsLoader
	providers Providers
	notifier  Notifier
	events    EventPublisher
}

// NewEpisodeProcessor creates a new EpisodeProcessor. notifier and events may be nil.
func NewEpisodeProcessor(projects projectStore, settings settingsLoader, providers Providers, notifier Notifier, events EventPublisher) *EpisodeProcessor {
	return &EpisodeProcessor{
		projects:  projects,
		settings:  settings,
		providers: providers,
		notifier:  notifier,
		events:    events,
	}
}

// GenerateEpisode produces script, tagline and tags, plus a best-effort cover, and writes them to the project.
// A text failure writes nothing. A cover failure keeps any prior cover.
func (p *EpisodeProcessor) GenerateEpisode(ctx context.Context, projectID uuid.UUID) (*EpisodeResult, error) {
	project, err := p.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	hadScript := project.HasScript()
	in := project.Input()

	p.notify(ctx, projectID, models.LevelInfo, MsgGenerationStarted)
	log.Info().
		Str("project_id", projectID.String()).
		Bool("regenerate", hadScript).
		Msg("Starting episode generation")

	s := p.settings.Load(ctx)
	text := p.providers.Text(s)
	cover := p.providers.Cover(s)

	var (
		wg       sync.WaitGroup
		pkg      *models.GeneratedPackage
		textErr  error
		coverURL string
		coverErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pkg, textErr = text.GeneratePackage(ctx, in)
	}()
	go func() {
		defer wg.Done()
		coverURL, coverErr = cover.GenerateCover(ctx, in)
	}()
	wg.Wait()

	if coverErr != nil {
		log.Warn().
			Err(coverErr).
			Str("project_id", projectID.String()).
			Msg("Cover generation failed, continuing without image")
		coverURL = ""
	}

	if textErr != nil {
		return nil, p.failEpisode(ctx, projectID, string(llm.StagePackage), fmt.Errorf("generate script: %w", textErr))
	}

	update := models.ProjectUpdate{
		Script:  &pkg.Script,
		Tagline: &pkg.Tagline,
		Tags:    pkg.Tags,
	}
	if coverURL != "" {
		update.CoverImageURL = &coverURL
	}
	stored, err := p.projects.Apply(ctx, projectID, update)
	if err != nil {
		return nil, p.failEpisode(ctx, projectID, StageSave, fmt.Errorf("save episode: %w", err))
	}

	outcome := OutcomeComplete
	switch {
	case coverURL != "":
	case hadScript:
		outcome = OutcomeScriptUpdatedCoverFailed
	default:
		outcome = OutcomeScriptGeneratedCoverFailed
	}

	level := models.LevelSuccess
	if outcome != OutcomeComplete {
		level = models.LevelInfo
	}
	p.notify(ctx, projectID, level, outcome.Message())
	p.publish(ctx, projectID, models.EventEpisodeGenerated, string(outcome))

	log.Info().
		Str("project_id", projectID.String()).
		Str("outcome", string(outcome)).
		Int("script_length", len(pkg.Script)).
		Int("tags", len(pkg.Tags)).
		Msg("Episode generation finished")

	return &EpisodeResult{Project: stored, Outcome: outcome, Message: outcome.Message()}, nil
}

// failEpisode notifies and publishes a generation_failed event whose outcome is stage.
func (p *EpisodeProcessor) failEpisode(ctx context.Context, projectID uuid.UUID, stage string, err error) error {
	log.Error().
		Err(err).
		Str("project_id", projectID.String()).
		Str("stage", stage).
		Msg("Episode generation failed")
	p.notify(ctx, projectID, models.LevelError, MsgScriptFailed)
	p.publish(ctx, projectID, models.EventGenerationFailed, stage)
	return err
}

// GenerateAudio reads the project's script with the configured voice and stores the audio.
// On failure the prior audio is left untouched.
func (p *EpisodeProcessor) GenerateAudio(ctx context.Context, projectID uuid.UUID) (*AudioResult, error) {
	project, err := p.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.HasScript() {
		return nil, ErrNoScript
	}

	p.notify(ctx, projectID, models.LevelInfo, MsgAudioStarted)

	s := p.settings.Load(ctx)
	voice := llm.VoiceProviderFor(s)
	log.Info().
		Str("project_id", projectID.String()).
		Str("voice_provider", string(voice)).
		Int("script_length", len(*project.Script)).
		Msg("Starting audio generation")

	data, err := p.providers.Speech(s).Synthesize(ctx, *project.Script, project.Tone)
	if err != nil {
		return nil, p.failAudio(ctx, projectID, string(llm.StageAudio), fmt.Errorf("synthesize audio: %w", err))
	}

	stored, err := p.projects.Apply(ctx, projectID, models.ProjectUpdate{AudioData: &data})
	if err != nil {
		return nil, p.failAudio(ctx, projectID, StageSave, fmt.Errorf("save audio: %w", err))
	}

	p.notify(ctx, projectID, models.LevelSuccess, MsgAudioComplete)
	p.publish(ctx, projectID, models.EventAudioGenerated, string(voice))

	return &AudioResult{Project: stored, Message: MsgAudioComplete}, nil
}

func (p *EpisodeProcessor) failAudio(ctx context.Context, projectID uuid.UUID, stage string, err error) error {
	log.Error().
		Err(err).
		Str("project_id", projectID.String()).
		Str("stage", stage).
		Msg("Audio generation failed")
	p.notify(ctx, projectID, models.LevelError, MsgAudioFailed)
	p.publish(ctx, projectID, models.EventGenerationFailed, stage)
	return err
}

func (p *EpisodeProcessor) notify(ctx context.Context, projectID uuid.UUID, level models.NotificationLevel, msg string) {
	if p.notifier == nil {
		return
	}
	id := projectID
	p.notifier.Notify(ctx, models.Notification{Level: level, Message: msg, ProjectID: &id})
}

func (p *EpisodeProcessor) publish(ctx context.Context, projectID uuid.UUID, event, outcome string) {
	if p.events == nil {
		return
	}
	if err := p.events.PublishEvent(ctx, projectID, event, outcome); err != nil {
		log.Error().
			Err(err).
			Str("project_id", projectID.String()).
			Str("event", event).
			Msg("Failed to publish generation event")
	}
}
