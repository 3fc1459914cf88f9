package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/arzan03/DoctorsPortal/internal/db"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/arzan03/DoctorsPortal/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const duplicateUserMessage = "User already exists"

// DirectoryService manages users and doctors.
type DirectoryService struct {
	users         UserStore
	doctors       DoctorStore
	images        ImageStore
	promoteUpsert bool
	log           zerolog.Logger
}

func NewDirectoryService(users UserStore, doctors DoctorStore, images ImageStore, promoteUpsert bool, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{
		users:         users,
		doctors:       doctors,
		images:        images,
		promoteUpsert: promoteUpsert,
		log:           log,
	}
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// CreateUser registers u. Emails are unique; a second sign-up with the same
// email is refused with an unacknowledged result.
func (s *DirectoryService) CreateUser(ctx context.Context, u models.User) (models.InsertResult, error) {
	if err := validateStruct(u); err != nil {
		return models.InsertResult{}, err
	}
	u.ID = primitive.NilObjectID
	// roles are only granted through PromoteToAdmin
	u.Role = ""

	existing, err := s.users.FindByEmail(ctx, u.Email)
	if err != nil {
		return models.InsertResult{}, err
	}
	if existing != nil {
		return models.Rejected(duplicateUserMessage), nil
	}

	id, err := s.users.Insert(ctx, &u)
	if errors.Is(err, db.ErrDuplicate) {
		return models.Rejected(duplicateUserMessage), nil
	}
	if err != nil {
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id.Hex()}, nil
}

// IsAdmin is false for unknown emails.
func (s *DirectoryService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}

// PromoteToAdmin grants the admin role to the user with id. Whether an
// unknown id creates a user depends on the promote-upsert setting.
func (s *DirectoryService) PromoteToAdmin(ctx context.Context, id string) (models.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.UpdateResult{}, err
	}
	res, err := s.users.PromoteToAdmin(ctx, oid, s.promoteUpsert)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		s.log.Warn().Str("user_id", id).Msg("promote matched no user")
	}
	return res, nil
}

func (s *DirectoryService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.doctors.List(ctx)
}

// ImageUpload is a doctor photo received with a multipart create request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateDoctor stores d, uploading img first when one is given.
func (s *DirectoryService) CreateDoctor(ctx context.Context, d models.Doctor, img *ImageUpload) (models.InsertResult, error) {
	if err := validateStruct(d); err != nil {
		return models.InsertResult{}, err
	}
	d.ID = primitive.NilObjectID
	d.ImageKey = ""

	if img != nil {
		if s.images == nil {
			return models.InsertResult{}, fmt.Errorf("%w: image uploads are disabled", ErrInvalidInput)
		}
		if !strings.HasPrefix(img.ContentType, "image/") {
			return models.InsertResult{}, fmt.Errorf("%w: %q is not an image", ErrInvalidInput, img.ContentType)
		}
		key := fmt.Sprintf("%s_%s", uuid.NewString(), path.Base(img.Filename))
		url, err := s.images.Put(ctx, key, img.Body, img.Size, img.ContentType)
		if err != nil {
			return models.InsertResult{}, fmt.Errorf("upload doctor image: %w", err)
		}
		d.Image, d.ImageKey = url, key
	}

	id, err := s.doctors.Insert(ctx, &d)
	if err != nil {
		if d.ImageKey != "" {
			// the document never landed, drop the orphaned photo
			go s.removeImage(context.Background(), d.ImageKey)
		}
		return models.InsertResult{}, err
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id.Hex()}, nil
}

// DeleteDoctor removes the doctor and its photo concurrently. A photo that
// cannot be removed is logged and left behind.
func (s *DirectoryService) DeleteDoctor(ctx context.Context, id string) (models.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.DeleteResult{}, err
	}

	doctor, err := s.doctors.FindByID(ctx, oid)
	if err != nil {
		return models.DeleteResult{}, err
	}
	if doctor == nil {
		return models.DeleteResult{Acknowledged: true}, nil
	}

	var deleted int64
	tasks := []utils.Task{func() error {
		n, err := s.doctors.Delete(ctx, oid)
		deleted = n
		return err
	}}
	if doctor.ImageKey != "" && s.images != nil {
		tasks = append(tasks, func() error {
			return s.images.Remove(ctx, doctor.ImageKey)
		})
	}

	errs := utils.RunParallel(tasks...)
	if errs[0] != nil {
		return models.DeleteResult{}, errs[0]
	}
	if len(errs) > 1 && errs[1] != nil {
		s.log.Warn().Err(errs[1]).Str("doctor_id", id).Str("image_key", doctor.ImageKey).Msg("doctor image not removed")
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

func (s *DirectoryService) removeImage(ctx context.Context, key string) {
	if err := s.images.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("image_key", key).Msg("orphaned doctor image not removed")
	}
}
