package api

import (
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/Aidin1998/minitask/common/errors"
	"github.com/Aidin1998/minitask/pkg/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if apperrors.KindOf(err) != apperrors.KindValidation {
			err = apperrors.Invalid.Explain("invalid JSON body").Wrap(err)
		}
		_ = c.Error(err)
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), req.Title)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := parseTaskID(c.Param("id"))
	if !ok {
		_ = c.Error(apperrors.Invalid.Explain("invalid task id"))
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("Task %d deleted", id)})
}

// parseTaskID accepts only canonical positive decimals: no sign, no leading zeros.
func parseTaskID(raw string) (int64, bool) {
	if raw == "" || raw[0] == '0' {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}
