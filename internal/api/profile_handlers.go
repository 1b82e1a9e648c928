package api

import (
	"net/http"

	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/logger"
	"github.com/vytor/karrito/internal/models"
)

type createProfileRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Kind        string `json:"profile_type"`
}

type duplicateProfileRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// updateProfileRequest carries the editable fields; nil means unchanged.
type updateProfileRequest struct {
	Name               *string `json:"name"`
	DisplayName        *string `json:"display_name"`
	MinecraftUsername  *string `json:"minecraft_username"`
	MicrosoftAccountID *string `json:"microsoft_account_id"`
	Kind               *string `json:"profile_type"`
	JavaPath           *string `json:"java_path"`
	JavaArgs           *string `json:"java_args"`
	MinMemoryMB        *int    `json:"min_memory_mb"`
	MaxMemoryMB        *int    `json:"max_memory_mb"`
	GameDirectory      *string `json:"game_directory"`
}

func (u updateProfileRequest) apply(p *models.Profile) error {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&p.Name, u.Name)
	setString(&p.DisplayName, u.DisplayName)
	setString(&p.MinecraftUsername, u.MinecraftUsername)
	setString(&p.MicrosoftAccountID, u.MicrosoftAccountID)
	setString(&p.JavaPath, u.JavaPath)
	setString(&p.JavaArgs, u.JavaArgs)
	setString(&p.GameDirectory, u.GameDirectory)
	if u.Kind != nil {
		kind := models.ProfileKind(*u.Kind)
		if !kind.Valid() {
			return errors.NewValidationError("profile_type", "unknown profile type "+*u.Kind)
		}
		p.Kind = kind
	}
	if u.MinMemoryMB != nil {
		p.MinMemoryMB = *u.MinMemoryMB
	}
	if u.MaxMemoryMB != nil {
		p.MaxMemoryMB = *u.MaxMemoryMB
	}
	return nil
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.Profiles.GetAllProfiles(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profiles)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	kind := models.KindOffline
	if req.Kind != "" {
		kind = models.ProfileKind(req.Kind)
	}

	profile, err := s.Profiles.CreateProfile(r.Context(), req.Name, req.DisplayName, kind).Wait(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("profile created via api: id=%d", profile.ID)
	writeJSON(w, r, http.StatusCreated, profile)
}

func (s *Server) handleActiveProfile(w http.ResponseWriter, r *http.Request) {
	active := s.Profiles.GetActiveProfile()
	if active == nil {
		handleError(w, r, errors.NewNotFoundError("profile", "active"))
		return
	}
	writeJSON(w, r, http.StatusOK, active)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	profile, err := s.Profiles.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.Profiles.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := req.apply(profile); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.Profiles.UpdateProfile(r.Context(), *profile).Wait(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	deleted, err := s.Profiles.DeleteProfile(r.Context(), id).Wait(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !deleted {
		handleError(w, r, errors.NewNotFoundError("profile", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.Profiles.SetActiveProfile(r.Context(), id).Wait(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleDuplicateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req duplicateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Name
	}

	profile, err := s.Profiles.DuplicateProfile(r.Context(), id, req.Name, req.DisplayName).Wait(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, profile)
}
