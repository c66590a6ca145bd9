package services

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

var (
	testLogger = zerolog.Nop()
	anonymous  *auth.Actor
	alice      = &auth.Actor{UserID: 1, Username: "alice", Role: models.RoleUser}
	bob        = &auth.Actor{UserID: 2, Username: "bob", Role: models.RoleUser}
	admin      = &auth.Actor{UserID: 99, Username: "root", Role: models.RoleAdmin}
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// memCache is a Cache kept in a map. Deleted records every removed key.
type memCache struct {
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

type fakeCourseRepo struct {
	courses map[int64]*models.Course
	nextID  int64
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[int64]*models.Course{}}
	for i := range courses {
		c := courses[i]
		r.courses[c.ID] = &c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCourseRepo) ListCourses(context.Context) ([]models.Course, error) {
	var out []models.Course
	for _, c := range r.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCourseRepo) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) CourseExists(_ context.Context, id int64) (bool, error) {
	_, ok := r.courses[id]
	return ok, nil
}

func (r *fakeCourseRepo) CreateCourse(_ context.Context, c *models.Course) error {
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) UpdateCourse(_ context.Context, c *models.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) UpdateCourseImage(_ context.Context, id int64, image string) error {
	c, ok := r.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	c.Image = &image
	return nil
}

func (r *fakeCourseRepo) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := r.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) GetCourseStats(context.Context, int64) (models.CourseStats, error) {
	return models.CourseStats{TotalLessons: 4, TotalEnrollments: 2}, nil
}

func (r *fakeCourseRepo) ListLatestWithStudents(_ context.Context, limit int) ([]models.CourseWithStudents, error) {
	courses, _ := r.ListCourses(context.Background())
	var out []models.CourseWithStudents
	for i := len(courses) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, models.CourseWithStudents{Course: courses[i]})
	}
	return out, nil
}

type fakeEnrollmentRepo struct {
	rows    []models.Enrollment
	courses *fakeCourseRepo

	// stalePrecheck makes IsEnrolled miss existing rows, leaving only the insert to catch duplicates.
	stalePrecheck bool
}

func (r *fakeEnrollmentRepo) CreateEnrollment(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	for _, e := range r.rows {
		if e.UserID == userID && e.CourseID == courseID {
			return nil, apperrors.ErrAlreadyEnrolled
		}
	}
	course, ok := r.courses.courses[courseID]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	e := models.Enrollment{
		ID:         int64(len(r.rows) + 1),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
		Course:     course,
	}
	r.rows = append(r.rows, e)
	return &e, nil
}

func (r *fakeEnrollmentRepo) ListEnrollments(_ context.Context, f repositories.EnrollmentFilter) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range r.rows {
		if f.UserID != nil && *f.UserID != e.UserID {
			continue
		}
		if f.PaidOnly && (e.Course == nil || !e.Course.IsPaid) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) GetEnrollmentByID(_ context.Context, id int64) (*models.Enrollment, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			e := r.rows[i]
			return &e, nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) IsEnrolled(_ context.Context, userID, courseID int64) (bool, error) {
	if r.stalePrecheck {
		return false, nil
	}
	for _, e := range r.rows {
		if e.UserID == userID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) DeleteEnrollment(_ context.Context, id int64) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}

type fakeEventRepo struct {
	events map[int64]*models.Event
	nextID int64
}

func newFakeEventRepo(events ...models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: map[int64]*models.Event{}}
	for i := range events {
		e := events[i]
		r.events[e.ID] = &e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeEventRepo) ListEvents(_ context.Context, category *models.EventCategory) ([]models.Event, error) {
	var out []models.Event
	for _, e := range r.events {
		if category == nil || e.Category == *category {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) GetEventByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) EventExists(_ context.Context, id int64) (bool, error) {
	_, ok := r.events[id]
	return ok, nil
}

func (r *fakeEventRepo) CreateEvent(_ context.Context, e *models.Event) error {
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) UpdateEvent(_ context.Context, e *models.Event) error {
	if _, ok := r.events[e.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) UpdateEventImageUpload(_ context.Context, id int64, image string) error {
	e, ok := r.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	e.ImageUpload = &image
	return nil
}

func (r *fakeEventRepo) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := r.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

type fakeEventRegisterRepo struct {
	rows   []models.EventRegister
	events *fakeEventRepo

	// stalePrecheck makes IsRegistered miss existing rows, leaving only the insert to catch duplicates.
	stalePrecheck bool
}

func (r *fakeEventRegisterRepo) CreateRegistration(_ context.Context, userID, eventID int64) (*models.EventRegister, error) {
	for _, reg := range r.rows {
		if reg.UserID == userID && reg.EventID == eventID {
			return nil, apperrors.ErrAlreadyRegistered
		}
	}
	event, ok := r.events.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	reg := models.EventRegister{
		ID:         int64(len(r.rows) + 1),
		UserID:     userID,
		EventID:    eventID,
		CreatedAt:  time.Now(),
		EventTitle: event.Title,
	}
	r.rows = append(r.rows, reg)
	return &reg, nil
}

func (r *fakeEventRegisterRepo) ListRegistrations(_ context.Context, userID *int64) ([]models.EventRegister, error) {
	var out []models.EventRegister
	for _, reg := range r.rows {
		if userID == nil || *userID == reg.UserID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *fakeEventRegisterRepo) IsRegistered(_ context.Context, userID, eventID int64) (bool, error) {
	if r.stalePrecheck {
		return false, nil
	}
	for _, reg := range r.rows {
		if reg.UserID == userID && reg.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRegisterRepo) DeleteRegistration(_ context.Context, userID, eventID int64) error {
	for i, reg := range r.rows {
		if reg.UserID == userID && reg.EventID == eventID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotRegistered
}

type fakeLessonRepo struct {
	lessons map[int64]*models.Lesson
}

func (r *fakeLessonRepo) ListLessons(_ context.Context, sectionID *int64) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range r.lessons {
		if sectionID == nil || *sectionID == l.SectionID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLessonRepo) GetLessonByID(_ context.Context, id int64) (*models.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLessonRepo) LessonExists(_ context.Context, id int64) (bool, error) {
	_, ok := r.lessons[id]
	return ok, nil
}

func (r *fakeLessonRepo) CreateLesson(_ context.Context, l *models.Lesson) error {
	l.ID = int64(len(r.lessons) + 1)
	cp := *l
	r.lessons[l.ID] = &cp
	return nil
}

func (r *fakeLessonRepo) UpdateLesson(_ context.Context, l *models.Lesson) error {
	if _, ok := r.lessons[l.ID]; !ok {
		return apperrors.ErrLessonNotFound
	}
	cp := *l
	r.lessons[l.ID] = &cp
	return nil
}

func (r *fakeLessonRepo) DeleteLesson(_ context.Context, id int64) error {
	if _, ok := r.lessons[id]; !ok {
		return apperrors.ErrLessonNotFound
	}
	delete(r.lessons, id)
	return nil
}

type fakeSectionRepo struct {
	sections map[int64]*models.Section
}

func (r *fakeSectionRepo) ListSections(_ context.Context, courseID *int64) ([]models.Section, error) {
	var out []models.Section
	for _, s := range r.sections {
		if courseID == nil || *courseID == s.CourseID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeSectionRepo) ListSectionsWithLessons(ctx context.Context, courseID int64) ([]models.Section, error) {
	return r.ListSections(ctx, &courseID)
}

func (r *fakeSectionRepo) GetSectionByID(_ context.Context, id int64) (*models.Section, error) {
	s, ok := r.sections[id]
	if !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSectionRepo) SectionExists(_ context.Context, id int64) (bool, error) {
	_, ok := r.sections[id]
	return ok, nil
}

func (r *fakeSectionRepo) CreateSection(_ context.Context, s *models.Section) error {
	s.ID = int64(len(r.sections) + 1)
	cp := *s
	r.sections[s.ID] = &cp
	return nil
}

func (r *fakeSectionRepo) UpdateSection(_ context.Context, s *models.Section) error {
	if _, ok := r.sections[s.ID]; !ok {
		return apperrors.ErrSectionNotFound
	}
	cp := *s
	r.sections[s.ID] = &cp
	return nil
}

func (r *fakeSectionRepo) DeleteSection(_ context.Context, id int64) error {
	if _, ok := r.sections[id]; !ok {
		return apperrors.ErrSectionNotFound
	}
	delete(r.sections, id)
	return nil
}

type fakeProgressRepo struct {
	rows map[int64]*models.LessonProgress
}

func (r *fakeProgressRepo) CreateProgress(_ context.Context, p *models.LessonProgress) error {
	for _, existing := range r.rows {
		if existing.UserID == p.UserID && existing.LessonID == p.LessonID {
			return apperrors.ErrProgressAlreadyTracked
		}
	}
	p.ID = int64(len(r.rows) + 1)
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeProgressRepo) ListProgress(_ context.Context, userID *int64) ([]models.LessonProgress, error) {
	var out []models.LessonProgress
	for _, p := range r.rows {
		if userID == nil || *userID == p.UserID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProgressRepo) GetProgressByID(_ context.Context, id int64) (*models.LessonProgress, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) UpdateProgress(_ context.Context, p *models.LessonProgress) error {
	if _, ok := r.rows[p.ID]; !ok {
		return apperrors.ErrProgressNotFound
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeProgressRepo) DeleteProgress(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrProgressNotFound
	}
	delete(r.rows, id)
	return nil
}

// fakeStorage records saved and deleted files under the /media prefix.
type fakeStorage struct {
	saved   []string
	deleted []string
}

func (s *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	url := "/media/" + subPath + "/" + strings.ToLower(fh.Filename)
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeStorage) DeleteFile(fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func (s *fakeStorage) Owns(fileURL string) bool {
	return strings.HasPrefix(fileURL, "/media/")
}
