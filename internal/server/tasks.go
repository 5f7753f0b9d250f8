package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tasktree/internal/models"
)

// taskID pulls the :id path parameter, rejecting blank values.
func (s *Server) taskID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Task ID is required",
			"code":  models.CodeInvalidTaskID,
		})
		return "", false
	}
	return id, true
}

// handleListTasks returns all top-level tasks, newest first.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// handleGetTask returns a single task by id.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleCreateTask creates a task, or a sub-task when parentTaskId is set.
func (s *Server) handleCreateTask(c *gin.Context) {
	var in models.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Request body must be a valid task object",
			"code":  models.CodeInvalidTitle,
		})
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), in)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// handleUpdateTask applies a partial update. A body carrying no updatable
// field is rejected before the store is touched.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	var in models.UpdateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Request body must be a valid task object",
			"code":  models.CodeNoUpdatesProvided,
		})
		return
	}
	if in.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "At least one field must be updated",
			"code":  models.CodeNoUpdatesProvided,
		})
		return
	}

	task, err := s.store.UpdateTask(c.Request.Context(), id, in)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleDeleteTask removes a task and, transitively, its sub-tasks.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully", "id": id})
}

// handleListSubTasks returns the direct children of an existing parent.
func (s *Server) handleListSubTasks(c *gin.Context) {
	id, ok := s.taskID(c)
	if !ok {
		return
	}

	if _, err := s.store.GetTask(c.Request.Context(), id); err != nil {
		s.respondDomainError(c, err)
		return
	}

	subTasks, err := s.store.ListSubTasks(c.Request.Context(), id)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, subTasks)
}
