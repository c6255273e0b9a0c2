package userController

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"lms/database"
	"lms/models"
	userValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = prev })
	return db
}

// listApp wires /user/list behind a stub that authenticates the given user.
func listApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Get("/user/list", func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}, userValidator.ListUsers(), ListUsers)
	return app
}

func fetchUsers(t *testing.T, app *fiber.App, url string) []map[string]any {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Users []map[string]any `json:"users"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data.Users
}

func TestListUsersActiveFilter(t *testing.T) {
	db := newTestDB(t)

	admin := models.User{Name: "Admin", Email: "admin@test.local", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	active := models.User{Name: "Active", Email: "active@test.local", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&active).Error)
	disabled := models.User{Name: "Disabled", Email: "disabled@test.local", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&disabled).Error)
	require.NoError(t, db.Model(&disabled).Update("is_active", false).Error)

	app := listApp(admin.ID)

	emails := func(users []map[string]any) []string {
		var out []string
		for _, u := range users {
			out = append(out, u["email"].(string))
		}
		return out
	}

	got := fetchUsers(t, app, "/user/list?is_active=true&role=student")
	assert.Equal(t, []string{"active@test.local"}, emails(got))

	got = fetchUsers(t, app, "/user/list?is_active=false&role=student")
	assert.Equal(t, []string{"disabled@test.local"}, emails(got))

	got = fetchUsers(t, app, "/user/list?role=student")
	assert.Len(t, got, 2, "no filter returns every student")
}

func TestListUsersNonAdminSeesOnlySelf(t *testing.T) {
	db := newTestDB(t)

	student := models.User{Name: "Student", Email: "s@test.local", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&student).Error)
	other := models.User{Name: "Other", Email: "o@test.local", Password: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	got := fetchUsers(t, listApp(student.ID), "/user/list?is_active=false")
	require.Len(t, got, 1)
	assert.Equal(t, "s@test.local", got[0]["email"], "non-admin scope ignores filters")
}
