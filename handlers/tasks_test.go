package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/models"
)

func sampleTasks() []models.Task {
	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	}
	return []models.Task{
		{TaskID: "task-1", TechnicianID: "tech-a", Status: models.TaskPending, ScheduledDate: day(3), ScheduledTime: "14:00"},
		{TaskID: "task-2", TechnicianID: "tech-b", Status: models.TaskInProgress, ScheduledDate: day(1), ScheduledTime: "09:00"},
		{TaskID: "task-3", TechnicianID: "tech-a", Status: models.TaskCompleted, ScheduledDate: day(3), ScheduledTime: "08:30"},
		{TaskID: "task-4", TechnicianID: "tech-a", Status: models.TaskPending, ScheduledDate: day(2), ScheduledTime: "11:00"},
	}
}

func TestEffectiveTechnicianPinsTechnicians(t *testing.T) {
	technician := &models.User{UserID: "tech-a", Role: models.RoleTechnician}
	assert.Equal(t, "tech-a", effectiveTechnician(technician, ""))
	// A technician asking for someone else's tasks is still pinned.
	assert.Equal(t, "tech-a", effectiveTechnician(technician, "tech-b"))

	supervisor := &models.User{UserID: "sup-1", Role: models.RoleSupervisor}
	assert.Equal(t, "tech-b", effectiveTechnician(supervisor, "tech-b"))
	assert.Equal(t, "", effectiveTechnician(supervisor, ""))

	admin := &models.User{UserID: "adm-1", Role: models.RoleAdmin}
	assert.Equal(t, "tech-a", effectiveTechnician(admin, "tech-a"))
}

func TestTechnicianListingNeverLeaksOtherTasks(t *testing.T) {
	technician := &models.User{UserID: "tech-a", Role: models.RoleTechnician}

	filtered := filterTasks(sampleTasks(), effectiveTechnician(technician, "tech-b"), "")
	require.Len(t, filtered, 3)
	for _, task := range filtered {
		assert.Equal(t, "tech-a", task.TechnicianID)
	}
}

func TestFilterTasksByTechnician(t *testing.T) {
	filtered := filterTasks(sampleTasks(), "tech-a", "")
	require.Len(t, filtered, 3)
	for _, task := range filtered {
		assert.Equal(t, "tech-a", task.TechnicianID)
	}
}

func TestFilterTasksByStatus(t *testing.T) {
	filtered := filterTasks(sampleTasks(), "", models.TaskPending)
	require.Len(t, filtered, 2)
	for _, task := range filtered {
		assert.Equal(t, models.TaskPending, task.Status)
	}
}

func TestFilterTasksCombined(t *testing.T) {
	filtered := filterTasks(sampleTasks(), "tech-a", models.TaskCompleted)
	require.Len(t, filtered, 1)
	assert.Equal(t, "task-3", filtered[0].TaskID)
}

func TestFilterTasksNoFilters(t *testing.T) {
	assert.Len(t, filterTasks(sampleTasks(), "", ""), 4)
}

func TestSortTasksBySchedule(t *testing.T) {
	tasks := sampleTasks()
	sortTasksBySchedule(tasks)

	got := make([]string, 0, len(tasks))
	for _, task := range tasks {
		got = append(got, task.TaskID)
	}

	// Date first, then time string breaks same-day ties.
	assert.Equal(t, []string{"task-2", "task-4", "task-3", "task-1"}, got)
}
