package repositories

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rohits-web03/ledger/internal/models"
)

// Store is the project store: CRUD over projects and their children, plus
// cleanup of attachment binaries in the blob store.
type Store struct {
	db    *gorm.DB
	blobs BlobStore
	log   *zap.Logger
}

func NewStore(db *gorm.DB, blobs BlobStore, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, blobs: blobs, log: log}
}

// Blobs exposes the blob backend the store cleans up against.
func (s *Store) Blobs() BlobStore { return s.blobs }

// ListProjects returns every project, newest first, each with its thumbnail.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, persistence("list projects", err)
	}

	thumbs, err := s.thumbnails(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if name, ok := thumbs[projects[i].ID]; ok {
			projects[i].Thumbnail = &name
		}
	}
	return projects, nil
}

// thumbnails maps project id to the storage name of its first image attachment.
func (s *Store) thumbnails(ctx context.Context) (map[uint]string, error) {
	var images []models.File
	err := s.db.WithContext(ctx).
		Select("id", "project_id", "filename").
		Where("mime_type LIKE ?", "image/%").
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, persistence("list thumbnails", err)
	}

	thumbs := make(map[uint]string, len(images))
	for _, f := range images {
		if _, seen := thumbs[f.ProjectID]; !seen {
			thumbs[f.ProjectID] = f.StorageName
		}
	}
	return thumbs, nil
}

func (s *Store) CreateProject(ctx context.Context, name, clientName string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "project name is required")
	}

	project := &models.Project{
		Name:       name,
		ClientName: strings.TrimSpace(clientName),
		Status:     models.ProjectActive,
	}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, persistence("create project", err)
	}
	s.log.Info("project created", zap.Uint("project_id", project.ID), zap.String("name", project.Name))
	return project, nil
}

// UpdateProject applies a partial update and reports the number of rows
// changed. An unknown id changes nothing and is not an error.
func (s *Store) UpdateProject(ctx context.Context, id uint, patch models.ProjectPatch) (int64, error) {
	if patch.Empty() {
		return 0, invalid("", "no updates provided")
	}

	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return 0, invalid("name", "project name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.ClientName != nil {
		updates["client_name"] = strings.TrimSpace(*patch.ClientName)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return 0, invalid("status", "must be one of active, on-hold, completed, archived")
		}
		updates["status"] = string(*patch.Status)
	}

	res := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, persistence("update project", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteProject removes the stored binaries of every attachment (best effort,
// failures are only logged) and then deletes the project row, which cascades
// to sections, files, todos and hours.
func (s *Store) DeleteProject(ctx context.Context, id uint) (int64, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.File{}).
		Where("project_id = ?", id).
		Order("id").
		Pluck("filename", &names).Error
	if err != nil {
		return 0, persistence("list project files", err)
	}

	s.log.Info("deleting project", zap.Uint("project_id", id), zap.Int("files", len(names)))
	for _, name := range names {
		s.removeBlob(ctx, name)
	}

	res := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return 0, persistence("delete project", res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Warn("no project found to delete", zap.Uint("project_id", id))
		return 0, ErrProjectNotFound
	}
	return res.RowsAffected, nil
}

// GetProjectDetail loads a project with all of its children.
func (s *Store) GetProjectDetail(ctx context.Context, id uint) (*models.ProjectDetail, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, persistence("get project", err)
	}

	detail := &models.ProjectDetail{
		Project:  project,
		Sections: []models.Section{},
		Todos:    []models.Todo{},
		Hours:    []models.HoursEntry{},
		Files:    []models.File{},
	}

	g, gctx := errgroup.WithContext(ctx)
	children := []any{&detail.Sections, &detail.Todos, &detail.Hours, &detail.Files}
	for _, dest := range children {
		g.Go(func() error {
			return s.db.WithContext(gctx).Where("project_id = ?", id).Order("id ASC").Find(dest).Error
		})
	}
	if err := g.Wait(); err != nil {
		return nil, persistence("get project children", err)
	}

	for _, f := range detail.Files {
		if f.IsImage() {
			name := f.StorageName
			detail.Thumbnail = &name
			break
		}
	}
	return detail, nil
}

// UpsertSection inserts the section or replaces the content of the existing
// row for (projectID, sectionType) in a single statement.
func (s *Store) UpsertSection(ctx context.Context, projectID uint, sectionType string, content *string) (*models.Section, error) {
	sectionType = strings.TrimSpace(sectionType)
	if sectionType == "" {
		return nil, invalid("section_type", "section type is required")
	}

	section := models.Section{
		ProjectID:   projectID,
		SectionType: sectionType,
		Content:     content,
		UpdatedAt:   time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "section_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&section).Error
	if err != nil {
		return nil, s.childWriteError(ctx, "upsert section", projectID, err)
	}

	// the conflict path does not reliably report the row id on every driver
	var stored models.Section
	err = s.db.WithContext(ctx).
		Where("project_id = ? AND section_type = ?", projectID, sectionType).
		First(&stored).Error
	if err != nil {
		return nil, persistence("reload section", err)
	}
	return &stored, nil
}

// AddFile records an attachment whose binary has already been stored.
func (s *Store) AddFile(ctx context.Context, projectID uint, sectionType string, desc models.FileDescriptor) (*models.File, error) {
	if desc.StorageName == "" {
		return nil, invalid("file", "no file uploaded")
	}

	file := &models.File{
		ProjectID:    projectID,
		SectionType:  sectionType,
		StorageName:  desc.StorageName,
		OriginalName: desc.OriginalName,
		MimeType:     strings.ToLower(strings.TrimSpace(desc.MimeType)),
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, s.childWriteError(ctx, "add file", projectID, err)
	}
	return file, nil
}

// DeleteFile removes an attachment's binary and row. Unknown ids are a no-op.
func (s *Store) DeleteFile(ctx context.Context, id uint) error {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return persistence("get file", err)
	}

	s.removeBlob(ctx, file.StorageName)

	if err := s.db.WithContext(ctx).Delete(&models.File{}, file.ID).Error; err != nil {
		return persistence("delete file", err)
	}
	return nil
}

func (s *Store) AddTodo(ctx context.Context, projectID uint, task string, priority models.TodoPriority) (*models.Todo, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, invalid("task", "task is required")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("priority", "must be one of low, medium, high")
	}

	todo := &models.Todo{
		ProjectID: projectID,
		Task:      task,
		Status:    models.TodoPending,
		Priority:  priority,
	}
	if err := s.db.WithContext(ctx).Create(todo).Error; err != nil {
		return nil, s.childWriteError(ctx, "add todo", projectID, err)
	}
	return todo, nil
}

// SetTodoStatus updates a todo in place. Unknown ids change nothing.
func (s *Store) SetTodoStatus(ctx context.Context, id uint, status models.TodoStatus) (int64, error) {
	if !status.Valid() {
		return 0, invalid("status", "must be pending or completed")
	}
	res := s.db.WithContext(ctx).Model(&models.Todo{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return 0, persistence("set todo status", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) AddHours(ctx context.Context, projectID uint, date string, duration float64, description string) (*models.HoursEntry, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, invalid("date", "date is required")
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil, invalid("duration", "must be a positive number of hours")
	}

	entry := &models.HoursEntry{
		ProjectID:   projectID,
		Date:        date,
		Duration:    duration,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, s.childWriteError(ctx, "add hours", projectID, err)
	}
	return entry, nil
}

// removeBlob deletes a binary, logging instead of failing.
func (s *Store) removeBlob(ctx context.Context, name string) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, name); err != nil {
		ioErr := &StorageIOError{Name: name, Err: err}
		s.log.Warn("blob cleanup failed", zap.String("filename", name), zap.Error(ioErr))
		return
	}
	s.log.Debug("blob deleted", zap.String("filename", name))
}

// childWriteError turns a failed child insert into ErrProjectNotFound when
// the parent is missing.
func (s *Store) childWriteError(ctx context.Context, op string, projectID uint, err error) error {
	var n int64
	if cErr := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&n).Error; cErr == nil && n == 0 {
		return ErrProjectNotFound
	}
	return persistence(op, err)
}
