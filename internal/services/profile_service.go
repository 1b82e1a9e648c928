package services

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/fsutil"
	"github.com/vytor/karrito/internal/logger"
	"github.com/vytor/karrito/internal/models"
	"github.com/vytor/karrito/internal/repository"
	"github.com/vytor/karrito/internal/worker"
)

// ProfileService owns the profile lifecycle: persistence, the active profile
// cache, and each profile's game directory. Mutations run on the worker pool
// and report through a future.
type ProfileService interface {
	Initialize(ctx context.Context) error
	CreateProfile(ctx context.Context, name, displayName string, kind models.ProfileKind) *worker.Future[*models.Profile]
	SetActiveProfile(ctx context.Context, id int64) *worker.Future[*models.Profile]
	UpdateProfile(ctx context.Context, profile models.Profile) *worker.Future[*models.Profile]
	DeleteProfile(ctx context.Context, id int64) *worker.Future[bool]
	DuplicateProfile(ctx context.Context, id int64, newName, newDisplayName string) *worker.Future[*models.Profile]
	GetActiveProfile() *models.Profile
	GetAllProfiles(ctx context.Context) ([]models.Profile, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	GetProfileByName(ctx context.Context, name string) (*models.Profile, error)
	Shutdown()
}

type profileService struct {
	profileRepo  repository.ProfileRepository
	tree         fsutil.Tree
	pool         *worker.Pool
	profilesRoot string

	// mutate serializes lifecycle mutations from the first check through
	// the cache write.
	mutate sync.Mutex

	mu     sync.RWMutex
	active *models.Profile
}

// NewProfileService creates a new ProfileService. The pool must already be
// started; Shutdown stops it.
func NewProfileService(profileRepo repository.ProfileRepository, tree fsutil.Tree, pool *worker.Pool, profilesRoot string) ProfileService {
	return &profileService{
		profileRepo:  profileRepo,
		tree:         tree,
		pool:         pool,
		profilesRoot: profilesRoot,
	}
}

func (s *profileService) Initialize(ctx context.Context) error {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	log := logger.FromContext(ctx).WithPrefix("profiles")
	log.Info("initializing profile service")

	active, err := s.profileRepo.FindActive(ctx)
	if err != nil {
		return errors.WithOp("Initialize", err)
	}
	if active != nil {
		s.setCache(active)
		log.Info("active profile loaded: %s", active.Name)
		return nil
	}

	n, err := s.profileRepo.Count(ctx)
	if err != nil {
		return errors.WithOp("Initialize", err)
	}

	if n == 0 {
		p := models.NewProfile(models.DefaultProfileName, models.DefaultProfileDisplayName, models.KindOffline)
		p.IsActive = true
		p.GameDirectory = s.gameDirFor(p.Name)
		created, err := s.profileRepo.Create(ctx, p)
		if err != nil {
			return errors.WithOp("Initialize", err)
		}
		s.createTree(ctx, created)
		s.setCache(created)
		log.Info("default profile created: id=%d", created.ID)
		return nil
	}

	all, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return errors.WithOp("Initialize", err)
	}
	if len(all) == 0 {
		return nil
	}
	if err := s.profileRepo.SetActive(ctx, all[0].ID); err != nil {
		return errors.WithOp("Initialize", err)
	}
	promoted, err := s.profileRepo.FindByID(ctx, all[0].ID)
	if err != nil {
		return errors.WithOp("Initialize", err)
	}
	s.setCache(promoted)
	log.Warn("no active profile found, promoted %s", all[0].Name)
	return nil
}

func (s *profileService) CreateProfile(ctx context.Context, name, displayName string, kind models.ProfileKind) *worker.Future[*models.Profile] {
	return worker.Go(ctx, s.pool, "CreateProfile", func(ctx context.Context) (*models.Profile, error) {
		s.mutate.Lock()
		defer s.mutate.Unlock()

		log := logger.FromContext(ctx).WithPrefix("profiles")
		log.Info("creating profile: name=%s kind=%s", name, kind)

		p := models.NewProfile(name, displayName, kind)
		if err := p.Validate(); err != nil {
			return nil, errors.WithOp("CreateProfile", err)
		}

		exists, err := s.profileRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, errors.WithOp("CreateProfile", err)
		}
		if exists {
			return nil, errors.WithOp("CreateProfile", errors.NewConstraintViolation("profile already exists: "+name))
		}

		p.GameDirectory = s.gameDirFor(name)
		created, err := s.profileRepo.Create(ctx, p)
		if err != nil {
			log.Error("failed to create profile %s: %v", name, err)
			return nil, errors.WithOp("CreateProfile", err)
		}
		s.createTree(ctx, created)
		return created, nil
	})
}

func (s *profileService) SetActiveProfile(ctx context.Context, id int64) *worker.Future[*models.Profile] {
	return worker.Go(ctx, s.pool, "SetActiveProfile", func(ctx context.Context) (*models.Profile, error) {
		s.mutate.Lock()
		defer s.mutate.Unlock()

		log := logger.FromContext(ctx).WithPrefix("profiles")
		log.Info("setting active profile: id=%d", id)

		target, err := s.profileRepo.FindByID(ctx, id)
		if err != nil {
			return nil, errors.WithOp("SetActiveProfile", err)
		}
		if target == nil {
			return nil, errors.WithOp("SetActiveProfile", errors.NewNotFoundError("profile", id))
		}

		if err := s.profileRepo.SetActive(ctx, id); err != nil {
			log.Error("failed to activate profile %d: %v", id, err)
			return nil, errors.WithOp("SetActiveProfile", err)
		}

		active, err := s.profileRepo.FindByID(ctx, id)
		if err != nil || active == nil {
			// Committed; fall back to the pre-read row.
			active = target
			active.IsActive = true
		}
		s.setCache(active)
		log.Info("profile %s is now active", active.Name)
		return copyProfile(active), nil
	})
}

func (s *profileService) UpdateProfile(ctx context.Context, profile models.Profile) *worker.Future[*models.Profile] {
	return worker.Go(ctx, s.pool, "UpdateProfile", func(ctx context.Context) (*models.Profile, error) {
		s.mutate.Lock()
		defer s.mutate.Unlock()

		log := logger.FromContext(ctx).WithPrefix("profiles")
		log.Info("updating profile: id=%d", profile.ID)

		if err := profile.Validate(); err != nil {
			return nil, errors.WithOp("UpdateProfile", err)
		}

		updated, err := s.profileRepo.Update(ctx, profile)
		if err != nil {
			log.Error("failed to update profile %d: %v", profile.ID, err)
			return nil, errors.WithOp("UpdateProfile", err)
		}

		s.mu.Lock()
		if s.active != nil && s.active.ID == updated.ID {
			s.active = copyProfile(updated)
		}
		s.mu.Unlock()
		return updated, nil
	})
}

func (s *profileService) DeleteProfile(ctx context.Context, id int64) *worker.Future[bool] {
	return worker.Go(ctx, s.pool, "DeleteProfile", func(ctx context.Context) (bool, error) {
		s.mutate.Lock()
		defer s.mutate.Unlock()

		log := logger.FromContext(ctx).WithPrefix("profiles")
		log.Info("deleting profile: id=%d", id)

		n, err := s.profileRepo.Count(ctx)
		if err != nil {
			return false, errors.WithOp("DeleteProfile", err)
		}
		if n <= 1 {
			return false, errors.WithOp("DeleteProfile", errors.NewConstraintViolation("cannot delete the only remaining profile"))
		}

		target, err := s.profileRepo.FindByID(ctx, id)
		if err != nil {
			return false, errors.WithOp("DeleteProfile", err)
		}
		if target == nil {
			log.Debug("profile %d does not exist", id)
			return false, nil
		}

		var (
			deleted  bool
			promoted *models.Profile
		)
		if target.IsActive {
			all, err := s.profileRepo.FindAll(ctx)
			if err != nil {
				return false, errors.WithOp("DeleteProfile", err)
			}
			for i := range all {
				if all[i].ID != id {
					promoted = &all[i]
					break
				}
			}
		}

		if promoted != nil {
			deleted, err = s.profileRepo.DeleteAndActivate(ctx, id, promoted.ID)
		} else {
			deleted, err = s.profileRepo.Delete(ctx, id)
		}
		if err != nil {
			log.Error("failed to delete profile %d: %v", id, err)
			return false, errors.WithOp("DeleteProfile", err)
		}

		if promoted != nil {
			promoted.IsActive = true
			s.setCache(promoted)
			log.Info("profile %s promoted to active", promoted.Name)
		} else {
			s.mu.Lock()
			if s.active != nil && s.active.ID == id {
				s.active = nil
			}
			s.mu.Unlock()
		}

		if deleted {
			dir := target.EffectiveGameDirectory(s.profilesRoot)
			if err := s.tree.RemoveAll(dir); err != nil {
				log.Warn("failed to remove directory for profile %s: %v", target.Name, err)
			}
			log.Info("profile %s deleted", target.Name)
		}
		return deleted, nil
	})
}

func (s *profileService) DuplicateProfile(ctx context.Context, id int64, newName, newDisplayName string) *worker.Future[*models.Profile] {
	return worker.Go(ctx, s.pool, "DuplicateProfile", func(ctx context.Context) (*models.Profile, error) {
		s.mutate.Lock()
		defer s.mutate.Unlock()

		log := logger.FromContext(ctx).WithPrefix("profiles")
		log.Info("duplicating profile %d as %s", id, newName)

		original, err := s.profileRepo.FindByID(ctx, id)
		if err != nil {
			return nil, errors.WithOp("DuplicateProfile", err)
		}
		if original == nil {
			return nil, errors.WithOp("DuplicateProfile", errors.NewNotFoundError("profile", id))
		}

		dup := original.Duplicate(newName, newDisplayName)
		if err := dup.Validate(); err != nil {
			return nil, errors.WithOp("DuplicateProfile", err)
		}
		exists, err := s.profileRepo.ExistsByName(ctx, newName)
		if err != nil {
			return nil, errors.WithOp("DuplicateProfile", err)
		}
		if exists {
			return nil, errors.WithOp("DuplicateProfile", errors.NewConstraintViolation("profile already exists: "+newName))
		}

		dup.GameDirectory = s.gameDirFor(newName)
		created, err := s.profileRepo.Create(ctx, dup)
		if err != nil {
			log.Error("failed to duplicate profile %d: %v", id, err)
			return nil, errors.WithOp("DuplicateProfile", err)
		}
		s.createTree(ctx, created)

		src := original.EffectiveGameDirectory(s.profilesRoot)
		copied, err := s.tree.CopyIfExists(src, created.GameDirectory, models.ProfileConfigFiles...)
		if err != nil {
			log.Warn("failed to copy files from %s to %s: %v", original.Name, created.Name, err)
		} else {
			log.Debug("copied %v from %s to %s", copied, original.Name, created.Name)
		}
		return created, nil
	})
}

// GetActiveProfile returns a copy of the cached active profile, or nil.
func (s *profileService) GetActiveProfile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProfile(s.active)
}

func (s *profileService) GetAllProfiles(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list profiles: %v", err)
		return nil, errors.WithOp("GetAllProfiles", err)
	}
	return profiles, nil
}

func (s *profileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	p, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.WithOp("GetProfile", err)
	}
	if p == nil {
		return nil, errors.WithOp("GetProfile", errors.NewNotFoundError("profile", id))
	}
	return p, nil
}

func (s *profileService) GetProfileByName(ctx context.Context, name string) (*models.Profile, error) {
	p, err := s.profileRepo.FindByName(ctx, name)
	if err != nil {
		return nil, errors.WithOp("GetProfileByName", err)
	}
	if p == nil {
		return nil, errors.WithOp("GetProfileByName", errors.NewNotFoundError("profile", name))
	}
	return p, nil
}

func (s *profileService) Shutdown() {
	logger.Default().WithPrefix("profiles").Info("shutting down profile service")
	s.pool.Stop()
}

func (s *profileService) setCache(p *models.Profile) {
	s.mu.Lock()
	s.active = copyProfile(p)
	s.mu.Unlock()
}

func (s *profileService) gameDirFor(name string) string {
	return filepath.Join(s.profilesRoot, name)
}

func (s *profileService) createTree(ctx context.Context, p *models.Profile) {
	dir := p.EffectiveGameDirectory(s.profilesRoot)
	if err := s.tree.CreateTree(dir, models.ProfileSubdirs...); err != nil {
		logger.FromContext(ctx).WithPrefix("profiles").Warn("failed to create directories for profile %s: %v", p.Name, err)
	}
}

func copyProfile(p *models.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
