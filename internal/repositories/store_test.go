package repositories

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/rohits-web03/ledger/internal/models"
)

func (s *StoreTestSuite) TestCreateProjectIsImmediatelyReadable() {
	p, err := s.store.CreateProject(s.ctx, "Redesign_2026", "Acme")
	s.Require().NoError(err)
	s.Require().NotZero(p.ID)

	detail, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Redesign_2026", detail.Name)
	s.Equal("Acme", detail.ClientName)
	s.Equal(models.ProjectActive, detail.Status)
	s.False(detail.CreatedAt.IsZero())
	s.Empty(detail.Sections)
	s.Empty(detail.Todos)
	s.Empty(detail.Hours)
	s.Empty(detail.Files)
	s.Nil(detail.Thumbnail)

	other := s.createProject("Second")
	s.NotEqual(p.ID, other.ID)
}

func (s *StoreTestSuite) TestCreateProjectRequiresName() {
	for _, name := range []string{"", "   "} {
		_, err := s.store.CreateProject(s.ctx, name, "Acme")
		var vErr *ValidationError
		s.Require().ErrorAs(err, &vErr)
		s.Equal("name", vErr.Field)
	}
}

func (s *StoreTestSuite) TestListProjectsNewestFirst() {
	first := s.createProject("First")
	second := s.createProject("Second")
	third := s.createProject("Third")

	projects, err := s.store.ListProjects(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(projects, 3)
	s.Equal([]uint{third.ID, second.ID, first.ID}, []uint{projects[0].ID, projects[1].ID, projects[2].ID})
}

func (s *StoreTestSuite) TestListProjectsEmpty() {
	projects, err := s.store.ListProjects(s.ctx)
	s.Require().NoError(err)
	s.NotNil(projects)
	s.Empty(projects)
}

func (s *StoreTestSuite) TestThumbnailDerivation() {
	none := s.createProject("No images")
	s.attach(none.ID, "brief.pdf", "application/pdf")

	single := s.createProject("One image")
	s.attach(single.ID, "notes.txt", "text/plain")
	s.attach(single.ID, "hero.png", "image/png")

	multi := s.createProject("Many images")
	s.attach(multi.ID, "spec.pdf", "application/pdf")
	s.attach(multi.ID, "a.jpg", "image/jpeg")
	s.attach(multi.ID, "b.webp", "image/webp")

	thumbOf := func() map[uint]*string {
		projects, err := s.store.ListProjects(s.ctx)
		s.Require().NoError(err)
		out := map[uint]*string{}
		for _, p := range projects {
			out[p.ID] = p.Thumbnail
		}
		return out
	}

	thumbs := thumbOf()
	s.Nil(thumbs[none.ID])
	s.Require().NotNil(thumbs[single.ID])
	s.Equal("hero.png", *thumbs[single.ID])
	s.Require().NotNil(thumbs[multi.ID])
	s.Contains([]string{"a.jpg", "b.webp"}, *thumbs[multi.ID])

	again := thumbOf()
	s.Equal(*thumbs[multi.ID], *again[multi.ID], "thumbnail must be stable across reads")

	detail, err := s.store.GetProjectDetail(s.ctx, multi.ID)
	s.Require().NoError(err)
	s.Require().NotNil(detail.Thumbnail)
	s.Equal(*thumbs[multi.ID], *detail.Thumbnail)
}

func (s *StoreTestSuite) TestMixedCaseImageTypeIsNormalised() {
	p := s.createProject("Shouty uploads")
	upper := s.attach(p.ID, "upper.png", " IMAGE/PNG ")
	s.attach(p.ID, "lower.png", "image/png")
	s.Equal("image/png", upper.MimeType)

	projects, err := s.store.ListProjects(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(projects, 1)
	s.Require().NotNil(projects[0].Thumbnail)

	detail, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(detail.Thumbnail)

	s.Equal("upper.png", *projects[0].Thumbnail)
	s.Equal(*projects[0].Thumbnail, *detail.Thumbnail)
	s.Equal("image/png", detail.Files[0].MimeType)
}

func (s *StoreTestSuite) TestUpdateProjectRoundTrip() {
	p := s.createProject("Redesign_2026")

	status := models.ProjectCompleted
	n, err := s.store.UpdateProject(s.ctx, p.ID, models.ProjectPatch{Status: &status})
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	detail, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(models.ProjectCompleted, detail.Status)
	s.Equal("Redesign_2026", detail.Name)
	s.Equal("Acme", detail.ClientName)
	s.Equal(p.CreatedAt.Unix(), detail.CreatedAt.Unix())
}

func (s *StoreTestSuite) TestUpdateProjectValidation() {
	p := s.createProject("Original")

	_, err := s.store.UpdateProject(s.ctx, p.ID, models.ProjectPatch{})
	var vErr *ValidationError
	s.ErrorAs(err, &vErr)

	bad := models.ProjectStatus("paused")
	_, err = s.store.UpdateProject(s.ctx, p.ID, models.ProjectPatch{Status: &bad})
	s.ErrorAs(err, &vErr)

	_, err = s.store.UpdateProject(s.ctx, p.ID, models.ProjectPatch{Name: strPtr(" ")})
	s.ErrorAs(err, &vErr)
}

func (s *StoreTestSuite) TestUpdateUnknownProjectIsNoop() {
	n, err := s.store.UpdateProject(s.ctx, 9999, models.ProjectPatch{Name: strPtr("Ghost")})
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *StoreTestSuite) TestDeleteProjectCascades() {
	p := s.createProject("Doomed")
	keep := s.createProject("Survivor")

	_, err := s.store.UpsertSection(s.ctx, p.ID, models.SectionOverview, strPtr("text"))
	s.Require().NoError(err)
	_, err = s.store.AddTodo(s.ctx, p.ID, "ship it", "")
	s.Require().NoError(err)
	_, err = s.store.AddHours(s.ctx, p.ID, "2026-01-02", 1.5, "kickoff")
	s.Require().NoError(err)
	s.attach(p.ID, "doomed.png", "image/png")
	s.attach(keep.ID, "kept.png", "image/png")

	n, err := s.store.DeleteProject(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	_, err = s.store.GetProjectDetail(s.ctx, p.ID)
	s.ErrorIs(err, ErrNotFound)

	s.Zero(s.countRows(&models.Section{}, p.ID))
	s.Zero(s.countRows(&models.Todo{}, p.ID))
	s.Zero(s.countRows(&models.HoursEntry{}, p.ID))
	s.Zero(s.countRows(&models.File{}, p.ID))

	exists, err := s.blobs.Exists(s.ctx, "doomed.png")
	s.Require().NoError(err)
	s.False(exists)

	exists, err = s.blobs.Exists(s.ctx, "kept.png")
	s.Require().NoError(err)
	s.True(exists)
	s.Equal(int64(1), s.countRows(&models.File{}, keep.ID))
}

func (s *StoreTestSuite) TestDeleteProjectWithoutFiles() {
	p := s.createProject("Empty")
	_, err := s.store.AddTodo(s.ctx, p.ID, "only a todo", models.PriorityHigh)
	s.Require().NoError(err)

	_, err = s.store.DeleteProject(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Zero(s.countRows(&models.Todo{}, p.ID))
}

func (s *StoreTestSuite) TestDeleteUnknownProject() {
	_, err := s.store.DeleteProject(s.ctx, 4242)
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *StoreTestSuite) TestDeleteProjectSurvivesBlobFailures() {
	p := s.createProject("Stubborn")
	s.attach(p.ID, "locked.png", "image/png")
	s.attach(p.ID, "free.png", "image/png")

	blobs := &failingBlobStore{BlobStore: s.blobs, fail: map[string]bool{"locked.png": true}}
	core := s.store.log.Core()
	store := NewStore(s.db, blobs, zap.New(core))

	n, err := store.DeleteProject(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	s.Equal([]string{"free.png"}, blobs.deleted, "later files are still cleaned up")
	s.Zero(s.countRows(&models.File{}, p.ID))

	warned := s.logs.FilterMessage("blob cleanup failed").All()
	s.Require().Len(warned, 1)
	s.Equal("locked.png", warned[0].ContextMap()["filename"])
}

func (s *StoreTestSuite) TestUpsertSectionNeverDuplicates() {
	p := s.createProject("Sections")

	first, err := s.store.UpsertSection(s.ctx, p.ID, models.SectionBilling, strPtr("v1"))
	s.Require().NoError(err)
	second, err := s.store.UpsertSection(s.ctx, p.ID, models.SectionBilling, strPtr("v2"))
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID)
	s.Require().NotNil(second.Content)
	s.Equal("v2", *second.Content)
	s.False(second.UpdatedAt.Before(first.UpdatedAt))
	s.Equal(int64(1), s.countRows(&models.Section{}, p.ID))

	detail, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("v2", detail.SectionContent(models.SectionBilling))
}

func (s *StoreTestSuite) TestUpsertSectionAcceptsEmptyAndNull() {
	p := s.createProject("Nullable")

	empty, err := s.store.UpsertSection(s.ctx, p.ID, models.SectionScope, strPtr(""))
	s.Require().NoError(err)
	s.Require().NotNil(empty.Content)
	s.Equal("", *empty.Content)

	cleared, err := s.store.UpsertSection(s.ctx, p.ID, models.SectionScope, nil)
	s.Require().NoError(err)
	s.Nil(cleared.Content)

	// free-form section types are fine too
	_, err = s.store.UpsertSection(s.ctx, p.ID, "retro", strPtr("went well"))
	s.Require().NoError(err)
	s.Equal(int64(2), s.countRows(&models.Section{}, p.ID))
}

func (s *StoreTestSuite) TestChildWritesOnMissingProject() {
	_, err := s.store.UpsertSection(s.ctx, 777, models.SectionOverview, strPtr("x"))
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.store.AddTodo(s.ctx, 777, "orphan", "")
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.store.AddHours(s.ctx, 777, "2026-01-01", 1, "")
	s.ErrorIs(err, ErrProjectNotFound)

	_, err = s.store.AddFile(s.ctx, 777, models.SectionAssets, models.FileDescriptor{StorageName: "x.bin", OriginalName: "x.bin"})
	s.ErrorIs(err, ErrProjectNotFound)
}

func (s *StoreTestSuite) TestDeleteFile() {
	p := s.createProject("Files")
	f := s.attach(p.ID, "drop.png", "image/png")
	s.attach(p.ID, "stay.png", "image/png")

	s.Require().NoError(s.store.DeleteFile(s.ctx, f.ID))

	exists, err := s.blobs.Exists(s.ctx, "drop.png")
	s.Require().NoError(err)
	s.False(exists)

	detail, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(detail.Files, 1)
	s.Equal("stay.png", detail.Files[0].StorageName)
}

func (s *StoreTestSuite) TestDeleteFileToleratesMissingBinary() {
	p := s.createProject("Files")
	f := s.attach(p.ID, "gone.png", "image/png")
	s.Require().NoError(s.blobs.Delete(s.ctx, "gone.png"))

	s.Require().NoError(s.store.DeleteFile(s.ctx, f.ID))
	s.Zero(s.countRows(&models.File{}, p.ID))
}

func (s *StoreTestSuite) TestDeleteUnknownFileIsNoop() {
	p := s.createProject("Files")
	s.attach(p.ID, "one.png", "image/png")

	before, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteFile(s.ctx, 31337))

	after, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(before.Files, after.Files)
}

func (s *StoreTestSuite) TestTodos() {
	p := s.createProject("Todos")

	a, err := s.store.AddTodo(s.ctx, p.ID, "design", "")
	s.Require().NoError(err)
	s.Equal(models.TodoPending, a.Status)
	s.Equal(models.PriorityMedium, a.Priority)
	b, err := s.store.AddTodo(s.ctx, p.ID, "build", models.PriorityLow)
	s.Require().NoError(err)

	n, err := s.store.SetTodoStatus(s.ctx, a.ID, models.TodoCompleted)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	detail, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(detail.Todos, 2)
	s.Equal(a.ID, detail.Todos[0].ID)
	s.True(detail.Todos[0].Done())
	s.Equal(b.ID, detail.Todos[1].ID)
	s.False(detail.Todos[1].Done())

	_, err = s.store.SetTodoStatus(s.ctx, a.ID, "done")
	var vErr *ValidationError
	s.ErrorAs(err, &vErr)

	_, err = s.store.AddTodo(s.ctx, p.ID, "  ", "")
	s.ErrorAs(err, &vErr)

	_, err = s.store.AddTodo(s.ctx, p.ID, "x", "urgent")
	s.ErrorAs(err, &vErr)

	n, err = s.store.SetTodoStatus(s.ctx, 5555, models.TodoCompleted)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *StoreTestSuite) TestHours() {
	p := s.createProject("Hours")

	for _, d := range []float64{1.5, 2.25, 0.25} {
		_, err := s.store.AddHours(s.ctx, p.ID, "2026-03-01", d, "work")
		s.Require().NoError(err)
	}

	detail, err := s.store.GetProjectDetail(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(detail.Hours, 3)
	s.Equal(1.5, detail.Hours[0].Duration)
	s.Equal(4.0, detail.TotalHours())

	var vErr *ValidationError
	_, err = s.store.AddHours(s.ctx, p.ID, "2026-03-01", 0, "")
	s.ErrorAs(err, &vErr)
	_, err = s.store.AddHours(s.ctx, p.ID, "2026-03-01", -2, "")
	s.ErrorAs(err, &vErr)
	_, err = s.store.AddHours(s.ctx, p.ID, "", 1, "")
	s.ErrorAs(err, &vErr)
}

func (s *StoreTestSuite) TestErrorTaxonomy() {
	s.True(errors.Is(ErrProjectNotFound, ErrNotFound))

	perr := persistence("op", errors.New("disk full"))
	var pe *PersistenceError
	s.Require().ErrorAs(perr, &pe)
	s.Equal("op", pe.Op)
	s.True(strings.Contains(perr.Error(), "disk full"))
}
