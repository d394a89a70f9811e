package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/devconnector/internal/models"
	mongorepo "github.com/yoockh/devconnector/internal/repositories/mongo"
	"github.com/yoockh/devconnector/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgNoProfile       = "There is no profile for this user"
	msgProfileNotFound = "Profile not found"
)

type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         string // comma separated

	YouTube   string
	Facebook  string
	Twitter   string
	Instagram string
	LinkedIn  string
}

type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

type OwnerLookup interface {
	Owners(ctx context.Context, userIDs []string) (map[string]*models.Owner, error)
}

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)

	AddExperience(ctx context.Context, userID string, in ExperienceInput) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, experienceID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, in EducationInput) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, educationID string) (*models.Profile, error)
}

type profileService struct {
	profiles mongorepo.ProfileRepository
	owners   OwnerLookup
}

func NewProfileService(profiles mongorepo.ProfileRepository, owners OwnerLookup) ProfileService {
	return &profileService{profiles: profiles, owners: owners}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	p, err := s.load(ctx, op, userID, msgNoProfile)
	if err != nil {
		return nil, err
	}
	if err := s.join(ctx, op, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error) {
	const op = "ProfileService.Upsert"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	status := strings.TrimSpace(in.Status)
	skills := ParseSkills(in.Skills)

	var failed []utils.FieldError
	if status == "" {
		failed = append(failed, required("status", "Status is required", in.Status))
	}
	if len(skills) == 0 {
		failed = append(failed, required("skills", "Skills is required", in.Skills))
	}
	if len(failed) > 0 {
		return nil, utils.Invalid(op, failed...)
	}

	f := models.ProfileFields{
		Company:        optional(in.Company),
		Website:        optional(in.Website),
		Location:       optional(in.Location),
		Bio:            optional(in.Bio),
		Status:         &status,
		GithubUsername: optional(in.GithubUsername),
		Skills:         skills,

		YouTube:   optional(in.YouTube),
		Facebook:  optional(in.Facebook),
		Twitter:   optional(in.Twitter),
		Instagram: optional(in.Instagram),
		LinkedIn:  optional(in.LinkedIn),
	}

	p, err := s.profiles.Upsert(ctx, userID, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert profile", err)
	}
	return p, nil
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	const op = "ProfileService.List"

	out, err := s.profiles.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list profiles", err)
	}

	ids := make([]string, len(out))
	for i := range out {
		ids[i] = out[i].UserID
	}
	owners, err := s.owners.Owners(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Owner = owners[out[i].UserID]
	}
	return out, nil
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetByUserID"

	if _, err := uuid.Parse(userID); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, msgProfileNotFound, err)
	}

	p, err := s.load(ctx, op, userID, msgProfileNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.join(ctx, op, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*models.Profile, error) {
	const op = "ProfileService.AddExperience"

	var failed []utils.FieldError
	if strings.TrimSpace(in.Title) == "" {
		failed = append(failed, required("title", "Title is required", in.Title))
	}
	if strings.TrimSpace(in.Company) == "" {
		failed = append(failed, required("company", "Company is required", in.Company))
	}
	from, to, dateErrs := parseRange(in.From, in.To, in.Current)
	failed = append(failed, dateErrs...)
	if len(failed) > 0 {
		return nil, utils.Invalid(op, failed...)
	}

	p, err := s.load(ctx, op, userID, msgNoProfile)
	if err != nil {
		return nil, err
	}

	entry := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	p.Experience = append([]models.Experience{entry}, p.Experience...)

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}

func (s *profileService) RemoveExperience(ctx context.Context, userID, experienceID string) (*models.Profile, error) {
	const op = "ProfileService.RemoveExperience"

	p, err := s.load(ctx, op, userID, msgNoProfile)
	if err != nil {
		return nil, err
	}

	if i := indexOf(len(p.Experience), func(i int) bool { return p.Experience[i].ID.Hex() == experienceID }); i >= 0 {
		p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}

func (s *profileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*models.Profile, error) {
	const op = "ProfileService.AddEducation"

	var failed []utils.FieldError
	if strings.TrimSpace(in.School) == "" {
		failed = append(failed, required("school", "School is required", in.School))
	}
	if strings.TrimSpace(in.Degree) == "" {
		failed = append(failed, required("degree", "Degree is required", in.Degree))
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		failed = append(failed, required("fieldofstudy", "Field of study is required", in.FieldOfStudy))
	}
	from, to, dateErrs := parseRange(in.From, in.To, in.Current)
	failed = append(failed, dateErrs...)
	if len(failed) > 0 {
		return nil, utils.Invalid(op, failed...)
	}

	p, err := s.load(ctx, op, userID, msgNoProfile)
	if err != nil {
		return nil, err
	}

	entry := models.Education{
		ID:           primitive.NewObjectID(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	p.Education = append([]models.Education{entry}, p.Education...)

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}

func (s *profileService) RemoveEducation(ctx context.Context, userID, educationID string) (*models.Profile, error) {
	const op = "ProfileService.RemoveEducation"

	p, err := s.load(ctx, op, userID, msgNoProfile)
	if err != nil {
		return nil, err
	}

	if i := indexOf(len(p.Education), func(i int) bool { return p.Education[i].ID.Hex() == educationID }); i >= 0 {
		p.Education = append(p.Education[:i], p.Education[i+1:]...)
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}

func (s *profileService) load(ctx context.Context, op, userID, notFoundMsg string) (*models.Profile, error) {
	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, notFoundMsg, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) join(ctx context.Context, op string, p *models.Profile) error {
	owners, err := s.owners.Owners(ctx, []string{p.UserID})
	if err != nil {
		return err
	}
	p.Owner = owners[p.UserID]
	return nil
}

// ParseSkills splits a comma separated list, trims each entry and drops blanks.
func ParseSkills(raw string) []string {
	out := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseRange validates from (required) and to (optional, dropped when current).
func parseRange(fromRaw, toRaw string, current bool) (time.Time, *time.Time, []utils.FieldError) {
	var failed []utils.FieldError

	from, ok := parseDate(fromRaw)
	switch {
	case strings.TrimSpace(fromRaw) == "":
		failed = append(failed, required("from", "From date is required", fromRaw))
	case !ok:
		failed = append(failed, required("from", "From date is not a valid date", fromRaw))
	}

	if current || strings.TrimSpace(toRaw) == "" {
		return from, nil, failed
	}
	to, ok := parseDate(toRaw)
	if !ok {
		failed = append(failed, required("to", "To date is not a valid date", toRaw))
		return from, nil, failed
	}
	return from, &to, failed
}

func required(param, msg string, value any) utils.FieldError {
	return utils.FieldError{Msg: msg, Param: param, Location: "body", Value: value}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func indexOf(n int, match func(i int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}
