package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/subject-catalog/internal/model"
	"github.com/stemsi/subject-catalog/internal/query"
	"github.com/stemsi/subject-catalog/internal/repository"
	"github.com/stemsi/subject-catalog/internal/validator"
)

// ValidationError carries every field rule a subject input violated.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "invalid subject: " + strings.Join(e.Reasons, "; ")
}

// SubjectService is the single entry point for reading and changing the
// subject catalog.
type SubjectService struct {
	subjectRepo repository.SubjectRepository
	log         zerolog.Logger
}

func NewSubjectService(subjectRepo repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// List returns one page of subjects matching q and the total match count.
func (s *SubjectService) List(ctx context.Context, q query.SubjectQuery) (query.Result, error) {
	all, err := s.subjectRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load subjects")
		return query.Result{}, err
	}
	return query.Subjects(all, q), nil
}

// Teachers returns the teacher filter options, led by query.AllTeachers.
func (s *SubjectService) Teachers(ctx context.Context) ([]string, error) {
	all, err := s.subjectRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load subjects")
		return nil, err
	}
	return query.Teachers(all), nil
}

func (s *SubjectService) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	sub, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrSubjectNotFound) {
		s.log.Error().Err(err).Int("id", id).Msg("failed to get subject")
	}
	return sub, err
}

// Create validates in and stores it under a fresh ID.
func (s *SubjectService) Create(ctx context.Context, in model.SubjectInput) (*model.Subject, error) {
	if reasons := validator.Subject(in); len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}

	sub := in.ToSubject(0)
	if err := s.subjectRepo.Create(ctx, &sub); err != nil {
		s.log.Error().Err(err).Msg("failed to create subject")
		return nil, err
	}

	s.log.Info().Int("id", sub.ID).Str("name", sub.Name).Msg("subject created")
	return &sub, nil
}

// Update replaces every field of the subject with the given ID.
// A missing subject is reported before the input is validated.
func (s *SubjectService) Update(ctx context.Context, id int, in model.SubjectInput) (*model.Subject, error) {
	sub, err := s.subjectRepo.Update(ctx, id, func(cur *model.Subject) error {
		if reasons := validator.Subject(in); len(reasons) > 0 {
			return &ValidationError{Reasons: reasons}
		}
		*cur = in.ToSubject(cur.ID)
		return nil
	})
	if err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) && !errors.Is(err, repository.ErrSubjectNotFound) {
			s.log.Error().Err(err).Int("id", id).Msg("failed to update subject")
		}
		return nil, err
	}

	s.log.Info().Int("id", sub.ID).Msg("subject updated")
	return sub, nil
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrSubjectNotFound) {
			s.log.Error().Err(err).Int("id", id).Msg("failed to delete subject")
		}
		return err
	}

	s.log.Info().Int("id", id).Msg("subject deleted")
	return nil
}
