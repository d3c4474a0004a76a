package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/model"
)

// ── UserService ──

func setupTestUserService() (UserService, *testRepos, *mockRevoker) {
	repos := newTestRepos()
	revoker := newMockRevoker()
	svc := NewUserService(repos.repo, revoker, time.Hour, newTestRecorder(), zap.NewNop())
	return svc, repos, revoker
}

func TestUserService_Delete_Success(t *testing.T) {
	svc, repos, revoker := setupTestUserService()
	caller := seedUser(t, repos, "admin", "password123")
	target := seedUser(t, repos, "staff", "password123")

	if err := svc.Delete(actorCtx(caller.ID), target.ID, caller.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := repos.users.users[target.ID]; ok {
		t.Error("管理员应已删除")
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != target.ID {
		t.Errorf("期望吊销被删除账号的 Token，实际=%v", revoker.revoked)
	}

	logs := repos.logs.byAction(model.ActionDeleted)
	if len(logs) != 1 || containsPassword(string(logs[0].OldValues)) {
		t.Errorf("期望1条不含密码的deleted日志，实际=%+v", logs)
	}
}

func TestUserService_Delete_Self(t *testing.T) {
	svc, repos, revoker := setupTestUserService()
	caller := seedUser(t, repos, "admin", "password123")

	err := svc.Delete(context.Background(), caller.ID, caller.ID)
	if !errors.Is(err, ErrUserSelfDelete) {
		t.Fatalf("期望 ErrUserSelfDelete，实际: %v", err)
	}
	if _, ok := repos.users.users[caller.ID]; !ok {
		t.Error("不应删除自身")
	}
	if len(revoker.revoked) != 0 || len(repos.logs.logs) != 0 {
		t.Error("拒绝删除时不应吊销 Token 或写日志")
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc, _, _ := setupTestUserService()

	err := svc.Delete(context.Background(), "missing", "admin-1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	svc, repos, _ := setupTestUserService()
	seedUser(t, repos, "admin", "password123")
	seedUser(t, repos, "staff", "password123")

	result, total, err := svc.List(context.Background(), &dto.UserListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 || len(result) != 2 {
		t.Errorf("期望2个管理员，实际 total=%d len=%d", total, len(result))
	}
}

// ── ProfileService ──

func setupTestProfileService() (ProfileService, *testRepos) {
	repos := newTestRepos()
	return NewProfileService(repos.repo, newTestRecorder(), zap.NewNop()), repos
}

func TestProfileService_Update_UsernameTaken(t *testing.T) {
	svc, repos := setupTestProfileService()
	me := seedUser(t, repos, "admin", "password123")
	seedUser(t, repos, "staff", "password123")

	_, err := svc.Update(context.Background(), me.ID, &dto.UpdateProfileRequest{
		Name:     "Admin",
		Username: "staff",
		Phone:    "0811",
		Email:    "admin@example.com",
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("期望 ErrUsernameExists，实际: %v", err)
	}
}

func TestProfileService_Update_KeepOwnValues(t *testing.T) {
	svc, repos := setupTestProfileService()
	me := seedUser(t, repos, "admin", "password123")

	result, err := svc.Update(actorCtx(me.ID), me.ID, &dto.UpdateProfileRequest{
		Name:     "Renamed",
		Username: "admin",
		Phone:    "0899",
		Email:    "admin@example.com",
	})
	if err != nil {
		t.Fatalf("保留自身用户名和邮箱应成功: %v", err)
	}
	if result.Name != "Renamed" || result.Phone != "0899" {
		t.Errorf("更新结果不符: %+v", result)
	}

	logs := repos.logs.byAction(model.ActionUpdated)
	if len(logs) != 1 || logs[0].ModelType != model.ModelTypeUser {
		t.Errorf("期望1条User updated日志，实际=%+v", logs)
	}
}

func TestProfileService_ChangePassword(t *testing.T) {
	svc, repos := setupTestProfileService()
	me := seedUser(t, repos, "admin", "password123")

	err := svc.ChangePassword(context.Background(), me.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "newpassword1",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("期望 ErrWrongPassword，实际: %v", err)
	}

	err = svc.ChangePassword(context.Background(), me.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repos.users.users[me.ID].Password), []byte("newpassword1")); err != nil {
		t.Error("新密码应生效")
	}

	logs := repos.logs.byAction(model.ActionUpdated)
	if len(logs) != 1 || len(logs[0].OldValues) != 0 || len(logs[0].NewValues) != 0 {
		t.Errorf("期望1条不含快照的日志，实际=%+v", logs)
	}
}
