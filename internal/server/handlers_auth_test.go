package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerBody = `{
	"name": "Ada Lovelace",
	"email": "ada@example.com",
	"password": "S3curePass",
	"dateOfBirth": "1990-03-14",
	"role": "seeker"
}`

func TestRegister_Endpoint(t *testing.T) {
	env := newTestServer(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", "", registerBody)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, "seeker", resp.Role)
	assert.NotContains(t, rec.Body.String(), "S3curePass")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestServer(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/auth/register", "", registerBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_BadDate(t *testing.T) {
	env := newTestServer(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", "",
		`{"name":"Ada","email":"ada@example.com","password":"S3curePass","dateOfBirth":"14/03/1990"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_WeakPassword(t *testing.T) {
	env := newTestServer(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", "",
		`{"name":"Ada","email":"ada@example.com","password":"short","dateOfBirth":"1990-03-14"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Endpoint(t *testing.T) {
	env := newTestServer(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/auth/login", "",
		`{"email":"ada@example.com","password":"S3curePass"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The minted token is accepted by the protected routes.
	list := env.doJSON(http.MethodGet, "/api/applications/user/applications/"+resp.User.ID.String(), "Bearer "+resp.Token, "")
	assert.Equal(t, http.StatusOK, list.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestServer(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/auth/login", "",
		`{"email":"ada@example.com","password":"WrongPass1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestServer(t)

	rec := env.doJSON(http.MethodPost, "/api/auth/login", "",
		`{"email":"nobody@example.com","password":"S3curePass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
