package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchoolService_InfoFallsBackToDefaults(t *testing.T) {
	e := newTestEnv(t, time.Now())

	info, err := e.schoolSvc.GetSchoolInfo(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Green Valley School", info.Name)
	assert.Equal(t, "BDT", info.Currency)

	_, err = e.schoolSvc.UpdateSchoolInfo(e.ctx, UpdateSchoolInfoInput{Name: "  "})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	saved, err := e.schoolSvc.UpdateSchoolInfo(e.ctx, UpdateSchoolInfoInput{Name: " Hill Top High ", EIIN: "108234", Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "Hill Top High", saved.Name)
	assert.Equal(t, "USD", saved.Currency)

	info, err = e.schoolSvc.GetSchoolInfo(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hill Top High", info.Name)
	assert.Equal(t, "108234", info.EIIN)
}

func TestSchoolService_Role(t *testing.T) {
	e := newTestEnv(t, time.Now())

	role, err := e.schoolSvc.GetRole(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, role)

	_, err = e.schoolSvc.SetRole(e.ctx, "principal")
	requireAppError(t, err, http.StatusUnprocessableEntity)

	role, err = e.schoolSvc.SetRole(e.ctx, " Accountant ")
	require.NoError(t, err)
	assert.Equal(t, enum.RoleAccountant, role)

	role, err = e.schoolSvc.GetRole(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, enum.RoleAccountant, role)
}
