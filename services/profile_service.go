package services

import (
	"errors"
	"path/filepath"
	"strings"

	"memory-match-service/models"
	"memory-match-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxCustomImages caps the profile image list at the 6x6 pair count;
// uploading past the cap drops the oldest entries.
const maxCustomImages = 18

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// GetProfile returns the caller's display name and custom image list.
func (p *ProfileService) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var profile models.Profile
	if err := p.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}
	if profile.CustomImages == nil {
		profile.CustomImages = []string{}
	}

	return c.JSON(profile)
}

// UploadImage stores one theme image in R2 and appends its public URL
// to the caller's profile.
func (p *ProfileService) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if file.Size > 5*1024*1024 { // 5MB
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 5MB)"})
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file must be an image"})
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".png"
	}
	name := slug.Make(strings.TrimSuffix(file.Filename, ext))
	if name == "" {
		name = "image"
	}
	key := "custom/" + uuid.NewString() + "-" + name + ext

	url, err := utils.UploadImageToR2(file, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload image"})
	}

	var profile models.Profile
	if err := p.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
		}
		profile = models.Profile{UserID: userID}
	}

	profile.CustomImages = append(profile.CustomImages, url)
	if len(profile.CustomImages) > maxCustomImages {
		profile.CustomImages = profile.CustomImages[len(profile.CustomImages)-maxCustomImages:]
	}

	if err := p.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"custom_images", "updated_at"}),
	}).Create(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "db error", "detail": err.Error()})
	}

	return c.JSON(fiber.Map{
		"url":           url,
		"custom_images": profile.CustomImages,
	})
}
