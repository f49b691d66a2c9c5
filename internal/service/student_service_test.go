package service

import (
	"errors"
	"lxp_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentService(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.studentRepo)

	st, err := svc.Create(CreateStudentRequest{FirstName: " Sam ", LastName: "Lee", Email: " Sam.Lee@Example.COM ", GradeLevel: 10})
	require.NoError(t, err)
	assert.Equal(t, "Sam", st.FirstName)
	assert.Equal(t, "sam.lee@example.com", st.Email)
	assert.True(t, st.IsActive)

	_, err = svc.Create(CreateStudentRequest{FirstName: "Sam", LastName: "Again", Email: "sam.lee@example.com", GradeLevel: 10})
	assert.True(t, errors.Is(err, util.ErrValidation))

	cases := []CreateStudentRequest{
		{FirstName: "", LastName: "X", Email: "a@example.com", GradeLevel: 5},
		{FirstName: "A", LastName: "X", Email: "nope", GradeLevel: 5},
		{FirstName: "A", LastName: "X", Email: "b@example.com", GradeLevel: 13},
		{FirstName: "A", LastName: "X", Email: "c@example.com", GradeLevel: 0},
		{FirstName: "A", LastName: "X", Email: "d@example.com", GradeLevel: 5, Gender: "Z"},
	}
	for _, req := range cases {
		_, err := svc.Create(req)
		assert.True(t, errors.Is(err, util.ErrValidation), "%+v", req)
	}

	off, err := svc.SetActive(st.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	active, total, err := svc.List(0, true, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, active)

	_, err = svc.Get(999)
	assert.True(t, errors.Is(err, util.ErrStudentNotFound))
}
