package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rosterapp/roster"
)

// studentForm is the shared form payload for the add and edit pages.
// The gender field arrives as a string and is coerced to the boolean
// encoding here, at request-handling time: "male" maps to true, anything
// else to false.
type studentForm struct {
	ID     string `form:"id" validate:"required"`
	Name   string `form:"name" validate:"required"`
	DOB    string `form:"dob" validate:"required"`
	Gender string `form:"gender" validate:"required"`
}

func (s *Server) handleListStudents(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	students, err := s.studentService.FindStudents(ctx, roster.StudentFilter{})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "index.html", map[string]any{
		"Students": students,
	})
}

func (s *Server) handleListMaleStudents(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	male := true
	students, err := s.studentService.FindStudents(ctx, roster.StudentFilter{Gender: &male})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "male_students.html", map[string]any{
		"Students": students,
	})
}

func (s *Server) handleStudentDetail(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	id := c.QueryParam("id")
	if id == "" {
		return roster.Invalid("id query parameter is required")
	}

	students, err := s.studentService.FindStudents(ctx, roster.StudentFilter{ID: &id})
	if err != nil {
		return err
	}
	if len(students) == 0 {
		return c.Render(http.StatusNotFound, "404.html", nil)
	}

	return c.Render(http.StatusOK, "student_detail.html", map[string]any{
		"Student": students[0],
	})
}

func (s *Server) handleEditStudentForm(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	id := c.Param("id")
	if id == "" {
		return roster.Invalid("id is required")
	}

	students, err := s.studentService.FindStudents(ctx, roster.StudentFilter{ID: &id})
	if err != nil {
		return err
	}
	if len(students) == 0 {
		return c.Render(http.StatusNotFound, "404.html", nil)
	}

	return c.Render(http.StatusOK, "edit.html", map[string]any{
		"Student": students[0],
	})
}

func (s *Server) handleCreateStudent(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	var req studentForm
	if err := bind(c, &req); err != nil {
		return err
	}

	// A new record requires an initial image.
	file, err := c.FormFile("avatar")
	if err != nil {
		return roster.Invalid("avatar image is required")
	}

	contentType := file.Header.Get("Content-Type")
	if err := roster.ValidateAvatar(file.Filename, contentType, file.Size); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return roster.Internal("Failed to read uploaded avatar", err)
	}
	defer src.Close()

	avatarURL, err := s.fileStorage.Upload(ctx, roster.AvatarKey(req.ID, file.Filename), src, contentType)
	if err != nil {
		return roster.Internal("Failed to store avatar image", err)
	}

	student := &roster.Student{
		ID:     req.ID,
		Name:   req.Name,
		DOB:    req.DOB,
		Gender: req.Gender == "male",
		Avatar: avatarURL,
	}
	if err := s.studentService.CreateStudent(ctx, student); err != nil {
		return err
	}

	s.log(c).Info("student created", slog.String("student_id", student.ID))

	return c.Redirect(http.StatusFound, "/")
}

func (s *Server) handleUpdateStudent(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	var req studentForm
	if err := bind(c, &req); err != nil {
		return err
	}

	upd := roster.StudentUpdate{
		Name:   req.Name,
		DOB:    req.DOB,
		Gender: req.Gender == "male",
	}

	// The avatar is patched only when a new image came with the form;
	// otherwise the stored value survives the update.
	if file, ferr := c.FormFile("avatar"); ferr == nil {
		contentType := file.Header.Get("Content-Type")
		if err := roster.ValidateAvatar(file.Filename, contentType, file.Size); err != nil {
			return err
		}

		src, err := file.Open()
		if err != nil {
			return roster.Internal("Failed to read uploaded avatar", err)
		}
		defer src.Close()

		avatarURL, err := s.fileStorage.Upload(ctx, roster.AvatarKey(req.ID, file.Filename), src, contentType)
		if err != nil {
			return roster.Internal("Failed to store avatar image", err)
		}
		upd.Avatar = &avatarURL
	}

	if _, err := s.studentService.UpdateStudent(ctx, req.ID, upd); err != nil {
		return err
	}

	s.log(c).Info("student updated",
		slog.String("student_id", req.ID),
		slog.Bool("new_avatar", upd.Avatar != nil),
	)

	return c.Redirect(http.StatusFound, "/")
}

func (s *Server) handleDeleteStudents(c echo.Context) error {
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	// The delete form encodes the selection as field names; values are
	// ignored.
	params, err := c.FormParams()
	if err != nil {
		return roster.Invalid("malformed form body")
	}

	ids := make([]string, 0, len(params))
	for name := range params {
		ids = append(ids, name)
	}
	if len(ids) == 0 {
		return c.Redirect(http.StatusFound, "/")
	}

	results, err := s.studentService.DeleteStudents(ctx, ids)
	for _, r := range results {
		if r.Err != nil {
			s.log(c).Error("failed to delete student",
				slog.String("student_id", r.ID),
				slog.String("error", r.Err.Error()),
			)
		}
	}
	if err != nil {
		return err
	}

	s.log(c).Info("students deleted", slog.Int("count", len(ids)))

	return c.Redirect(http.StatusFound, "/")
}
