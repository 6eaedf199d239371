package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/troopops/task-tracker/internal/api/handlers"
	"github.com/troopops/task-tracker/internal/client"
	"github.com/troopops/task-tracker/internal/client/resend"
	"github.com/troopops/task-tracker/internal/config"
	"github.com/troopops/task-tracker/internal/repository"
	"github.com/troopops/task-tracker/internal/service"
)

func SetupRouter(db *sqlx.DB, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()

	var mailer client.Mailer
	if cfg.EmailConfigured() {
		mailer = resend.NewResendClient(cfg.ResendAPIKey, cfg.ResendFrom)
	} else {
		mailer = client.NewLogMailer()
	}

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	rankRepo := repository.NewRankRepository(db)
	slaRepo := repository.NewSLARepository(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	orgService := service.NewOrgService(rankRepo, slaRepo)
	taskService := service.NewTaskService(taskRepo, userRepo, mailer, cfg.BaseURL)
	reminderService := service.NewReminderService(taskRepo, mailer, cfg.BaseURL)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	orgHandler := handlers.NewOrgHandler(orgService)
	taskHandler := handlers.NewTaskHandler(taskService)
	emailHandler := handlers.NewEmailHandler(mailer, cfg.EmailConfigured(), cfg.ResendFrom)
	cronHandler := handlers.NewCronHandler(reminderService, cfg.CronSecret)

	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/verify", authHandler.Verify)

	mux.HandleFunc("POST /tasks", taskHandler.CreateTask)
	mux.HandleFunc("GET /tasks", taskHandler.ListTasks)
	mux.HandleFunc("GET /tasks/{id}", taskHandler.GetTask)
	mux.HandleFunc("PUT /tasks/{id}", taskHandler.UpdateTask)
	mux.HandleFunc("PATCH /tasks/{id}/status", taskHandler.UpdateStatus)
	mux.HandleFunc("DELETE /tasks/{id}", taskHandler.DeleteTask)

	mux.HandleFunc("POST /users", userHandler.CreateUser)
	mux.HandleFunc("GET /users", userHandler.ListUsers)
	mux.HandleFunc("PUT /users/{id}", userHandler.UpdateUser)
	mux.HandleFunc("DELETE /users/{id}", userHandler.DeleteUser)

	mux.HandleFunc("GET /ranks", orgHandler.ListRanks)
	mux.HandleFunc("POST /ranks", orgHandler.CreateRank)
	mux.HandleFunc("PUT /ranks/{id}", orgHandler.UpdateRank)
	mux.HandleFunc("DELETE /ranks/{id}", orgHandler.DeleteRank)

	mux.HandleFunc("GET /sla-settings", orgHandler.ListSLASettings)
	mux.HandleFunc("PUT /sla-settings", orgHandler.UpsertSLASetting)

	mux.HandleFunc("POST /emails/send", emailHandler.SendEmail)
	mux.HandleFunc("GET /emails/test-config", emailHandler.TestConfig)

	mux.HandleFunc("GET /cron/due-reminders", cronHandler.DueReminders)

	return mux
}
