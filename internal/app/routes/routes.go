package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/controllers"
	"github.com/yigit/learnhub/internal/middleware"
)

// Login attempts allowed per client IP per window.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Controllers groups the HTTP handlers mounted by SetupRouter.
type Controllers struct {
	Auth           *controllers.AuthController
	Course         *controllers.CourseController
	Section        *controllers.SectionController
	Lesson         *controllers.LessonController
	Enrollment     *controllers.EnrollmentController
	LessonProgress *controllers.LessonProgressController
	Event          *controllers.EventController
	Stats          *controllers.StatsController
}

// SetupRouter configures all application routes under /api.
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	api := router.Group("/api")

	// --- Token and account routes ---
	api.POST("/token/", rateLimiter.Limit("token", loginRateLimit, loginRateWindow), c.Auth.Login)
	api.POST("/token/refresh/", c.Auth.RefreshToken)
	api.POST("/auth/register/", c.Auth.Register)
	api.GET("/auth/user/", authMiddleware.JWTAuth(), c.Auth.GetCurrentUser)

	// Reads are public; a token, when sent, must be valid.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())

	// Mutations of user owned rows need a logged in user.
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Catalogue mutations are limited to administrators.
	admin := authenticated.Group("")
	admin.Use(authMiddleware.AdminRequired())

	// --- Courses ---
	public.GET("/courses", c.Course.ListCourses)
	public.GET("/courses/top-revenue", c.Stats.TopRevenue)
	public.GET("/courses/latest-with-students", c.Course.ListLatestWithStudents)
	public.GET("/courses/:id", c.Course.GetCourse)
	public.GET("/courses/:id/sections", c.Section.ListCourseSections)
	public.GET("/courses/:id/sections-with-lessons", c.Section.ListCourseSectionsWithLessons)
	admin.POST("/courses", c.Course.CreateCourse)
	admin.PUT("/courses/:id", c.Course.UpdateCourse)
	admin.PATCH("/courses/:id", c.Course.UpdateCourse)
	admin.DELETE("/courses/:id", c.Course.DeleteCourse)
	admin.POST("/courses/:id/image", c.Course.UploadCourseImage)

	// --- Sections ---
	public.GET("/sections", c.Section.ListSections)
	public.GET("/sections/:id", c.Section.GetSection)
	public.GET("/sections/:id/lessons", c.Section.ListSectionLessons)
	admin.POST("/sections", c.Section.CreateSection)
	admin.PUT("/sections/:id", c.Section.UpdateSection)
	admin.PATCH("/sections/:id", c.Section.UpdateSection)
	admin.DELETE("/sections/:id", c.Section.DeleteSection)

	// --- Lessons ---
	public.GET("/lessons", c.Lesson.ListLessons)
	public.GET("/lessons/:id", c.Lesson.GetLesson)
	admin.POST("/lessons", c.Lesson.CreateLesson)
	admin.PUT("/lessons/:id", c.Lesson.UpdateLesson)
	admin.PATCH("/lessons/:id", c.Lesson.UpdateLesson)
	admin.DELETE("/lessons/:id", c.Lesson.DeleteLesson)

	// --- Enrollments ---
	public.GET("/enrollments", c.Enrollment.ListEnrollments)
	public.GET("/enrollments/paid", c.Enrollment.ListPaidEnrollments)
	public.GET("/enrollments/:id", c.Enrollment.GetEnrollment)
	authenticated.GET("/enrollments/is-enrolled/:course_id", c.Enrollment.IsEnrolled)
	authenticated.POST("/enrollments", c.Enrollment.Enroll)
	authenticated.DELETE("/enrollments/:id", c.Enrollment.DeleteEnrollment)

	// --- Lesson progress ---
	public.GET("/lessonprogresses", c.LessonProgress.ListProgress)
	public.GET("/lessonprogresses/:id", c.LessonProgress.GetProgress)
	authenticated.POST("/lessonprogresses", c.LessonProgress.CreateProgress)
	authenticated.PUT("/lessonprogresses/:id", c.LessonProgress.UpdateProgress)
	authenticated.PATCH("/lessonprogresses/:id", c.LessonProgress.UpdateProgress)
	authenticated.DELETE("/lessonprogresses/:id", c.LessonProgress.DeleteProgress)

	// --- Events ---
	public.GET("/events", c.Event.ListEvents)
	public.GET("/events/:id", c.Event.GetEvent)
	admin.POST("/events", c.Event.CreateEvent)
	admin.PUT("/events/:id", c.Event.UpdateEvent)
	admin.PATCH("/events/:id", c.Event.UpdateEvent)
	admin.DELETE("/events/:id", c.Event.DeleteEvent)
	admin.POST("/events/:id/image", c.Event.UploadEventImage)

	// --- Event registrations ---
	public.GET("/event-registers", c.Event.ListRegistrations)
	authenticated.POST("/event-registers", c.Event.Register)
	authenticated.GET("/event-registers/is-registered/:event_id", c.Event.IsRegistered)
	authenticated.DELETE("/event-registers/cancel/:event_id", c.Event.CancelRegistration)

	// --- Dashboard ---
	public.GET("/dashboard/stats", c.Stats.Dashboard)
}
