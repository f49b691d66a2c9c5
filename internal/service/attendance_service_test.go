package service

import (
	"errors"
	"lxp_backend/internal/model"
	"lxp_backend/internal/repository"
	"lxp_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendance_RecordCorrectsSameDay(t *testing.T) {
	f := newFixture(t)
	svc := NewAttendanceService(repository.NewAttendanceRepository(f.db), f.studentRepo)
	st := f.student(t, "Ada", 9)

	first, err := svc.Record(RecordAttendanceRequest{StudentID: st.ID, Date: "2024-09-02", Status: model.AttendanceAbsent})
	require.NoError(t, err)
	assert.Equal(t, "2024-09-02", time.Time(first.Date).Format(dateLayout))

	fixed, err := svc.Record(RecordAttendanceRequest{StudentID: st.ID, Date: "2024-09-02", Status: model.AttendanceExcused, Notes: "doctor's note"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, fixed.ID)
	assert.Equal(t, model.AttendanceExcused, fixed.Status)
	assert.Equal(t, "doctor's note", fixed.Notes)

	var count int64
	require.NoError(t, f.db.Model(&model.Attendance{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAttendance_ListFilters(t *testing.T) {
	f := newFixture(t)
	svc := NewAttendanceService(repository.NewAttendanceRepository(f.db), f.studentRepo)
	a := f.student(t, "Bo", 9)
	b := f.student(t, "Cy", 9)

	for _, day := range []string{"2024-09-01", "2024-09-02", "2024-09-03"} {
		_, err := svc.Record(RecordAttendanceRequest{StudentID: a.ID, Date: day, Status: model.AttendancePresent})
		require.NoError(t, err)
	}
	_, err := svc.Record(RecordAttendanceRequest{StudentID: b.ID, Date: "2024-09-03", Status: model.AttendanceLate})
	require.NoError(t, err)

	all, total, err := svc.List(0, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)

	mine, total, err := svc.List(a.ID, "2024-09-02", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, mine, 2)
	assert.Equal(t, "2024-09-03", time.Time(mine[0].Date).Format(dateLayout))
	assert.Equal(t, "2024-09-02", time.Time(mine[1].Date).Format(dateLayout))

	_, _, err = svc.List(a.ID, "09/02/2024", 1, 20)
	assert.True(t, errors.Is(err, util.ErrValidation))
}

func TestAttendance_RecordValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewAttendanceService(repository.NewAttendanceRepository(f.db), f.studentRepo)
	st := f.student(t, "Di", 9)

	_, err := svc.Record(RecordAttendanceRequest{StudentID: st.ID, Date: "2024-09-02", Status: "sick"})
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = svc.Record(RecordAttendanceRequest{StudentID: st.ID, Date: "yesterday", Status: model.AttendancePresent})
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = svc.Record(RecordAttendanceRequest{StudentID: 999, Date: "2024-09-02", Status: model.AttendancePresent})
	assert.True(t, errors.Is(err, util.ErrStudentNotFound))

	var count int64
	require.NoError(t, f.db.Model(&model.Attendance{}).Count(&count).Error)
	assert.Zero(t, count)
}
