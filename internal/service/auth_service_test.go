package service

import (
	"context"
	"testing"

	"github.com/DonboyBR/sigam-backend/internal/apierror"
	"github.com/DonboyBR/sigam-backend/internal/config"
	"github.com/DonboyBR/sigam-backend/internal/dto"
	"github.com/DonboyBR/sigam-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "segredo-de-teste",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
}

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, username, password, rol string, ativo bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.Usuario{
		Username:     username,
		Nome:         "Usuário " + username,
		PasswordHash: string(hash),
		Rol:          rol,
		Ativo:        ativo,
	}))
}

func TestLogin(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "joao", "senha-forte", model.RolFuncionario, true)
	svc := NewAuthService(repo, testConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "joao", Password: "senha-forte"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "joao", resp.User.Username)
	assert.Equal(t, model.RolFuncionario, resp.User.Rol)
}

func TestLoginSenhaErrada(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "joao", "senha-forte", model.RolFuncionario, true)
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "joao", Password: "errada"})
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "inexistente", Password: "x"})
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestLoginUsuarioInativo(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "antigo", "senha", model.RolFuncionario, false)
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "antigo", Password: "senha"})
	assert.ErrorIs(t, err, ErrCredenciaisInvalidas)
}

func TestRefresh(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "ana", "senha", model.RolAdmin, true)
	svc := NewAuthService(repo, testConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "senha"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.Equal(t, "ana", renovado.User.Username)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc := NewAuthService(newFakeUsuarioRepo(), testConfig())

	_, err := svc.Refresh(context.Background(), "nao-e-um-jwt")
	assert.Error(t, err)
}

func TestCriarUsuarioDuplicado(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, testConfig())

	req := dto.CriarUsuarioRequest{
		Username: "carlos",
		Nome:     "Carlos",
		Password: "12345678",
		Rol:      model.RolFuncionario,
	}
	_, err := svc.CriarUsuario(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CriarUsuario(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 409, apierror.Status(err))
}

func TestDesativarEReativarUsuario(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, testConfig())

	criado, err := svc.CriarUsuario(context.Background(), dto.CriarUsuarioRequest{
		Username: "temp", Nome: "Temp", Password: "12345678", Rol: model.RolFuncionario,
	})
	require.NoError(t, err)

	listados, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, listados, 1)

	id := mustUUID(t, criado.ID)
	require.NoError(t, svc.DesativarUsuario(context.Background(), id))
	listados, err = svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, listados)

	require.NoError(t, svc.ReativarUsuario(context.Background(), id))
	listados, err = svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, listados, 1)
}
