package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"attendly.com/attendly/attendance"
	"attendly.com/attendly/core"
	"attendly.com/attendly/infrastructure/communication"
	"attendly.com/attendly/infrastructure/devops"
	"attendly.com/attendly/security"
	"attendly.com/attendly/web/handlers"
	"attendly.com/attendly/web/middlewares"
)

func main() {
	godotenv.Load()

	cfg, err := devops.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	db := core.ConnectDB(cfg.DSN)
	if err := core.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var alerts security.Notifier
	if cfg.Slack.Token != "" && cfg.Slack.AlertChannelID != "" {
		alerts = communication.NewSlack(cfg.Slack.Token, cfg.Slack.AlertChannelID)
	}

	store := security.NewStore(db)
	pipeline := security.NewPipeline(store, alerts)
	recorder := &attendance.Recorder{DB: db}
	jwtSecret := []byte(cfg.JWTSecret)

	authH := &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: time.Duration(cfg.TokenTTLHours) * time.Hour}
	attendanceH := &handlers.AttendanceHandler{DB: db, Pipeline: pipeline, Recorder: recorder}
	branchH := &handlers.BranchHandler{DB: db}
	employeeH := &handlers.EmployeeHandler{DB: db}
	scheduleH := &handlers.ScheduleHandler{DB: db}
	securityH := &handlers.SecurityHandler{DB: db}
	adminH := &handlers.AdminHandler{DB: db}
	reportH := &handlers.ReportHandler{DB: db, Archive: cfg.ReportArchive}

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/auth/login", authH.Login)

	api := r.Group("/api")
	api.Use(middlewares.Authentication(jwtSecret))
	{
		api.GET("/auth/me", authH.Me)
		api.GET("/security/client-settings", securityH.ClientSettings)

		api.POST("/attendance/scan", attendanceH.Scan)
		api.GET("/attendance/me", attendanceH.MyAttendance)
		api.GET("/attendance/today", attendanceH.Today)

		adminOnly := middlewares.RequireRole(core.RoleAdmin)
		api.GET("/attendance/dashboard", adminOnly, adminH.Dashboard)
		api.GET("/attendance/report", adminOnly, reportH.Report)
		api.GET("/attendance/report/export", adminOnly, reportH.Export)
	}

	admin := api.Group("/admin")
	admin.Use(middlewares.RequireRole(core.RoleAdmin))
	{
		admin.GET("/branches", branchH.List)
		admin.POST("/branches", branchH.Create)
		admin.PUT("/branches/:id", branchH.Update)
		admin.DELETE("/branches/:id", branchH.Delete)
		admin.POST("/branches/:id/rotate-secret", branchH.RotateSecret)
		admin.GET("/branches/:id/qr", branchH.QRCode)
		admin.GET("/branches/:id/whitelist", securityH.ListAllowlist)
		admin.POST("/branches/:id/whitelist", securityH.AddAllowlistEntry)
		admin.DELETE("/branches/:id/whitelist/:entryId", securityH.DeleteAllowlistEntry)

		admin.GET("/employees", employeeH.List)
		admin.POST("/employees", employeeH.Create)
		admin.PUT("/employees/:id", employeeH.Update)
		admin.DELETE("/employees/:id", employeeH.Delete)
		admin.POST("/employees/:id/face", securityH.RegisterFace)
		admin.DELETE("/employees/:id/face", securityH.RemoveFace)

		admin.GET("/schedules", scheduleH.List)
		admin.POST("/schedules", scheduleH.Create)
		admin.PUT("/schedules/:id", scheduleH.Update)
		admin.DELETE("/schedules/:id", scheduleH.Delete)

		admin.GET("/security-settings", securityH.GetSettings)
		admin.PUT("/security-settings", securityH.UpdateSettings)
		admin.GET("/security/gps-logs", securityH.GpsLogs)
		admin.GET("/security/face-logs", securityH.FaceLogs)

		admin.GET("/settings", adminH.GetWorkdaySettings)
		admin.PUT("/settings", adminH.UpdateWorkdaySettings)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
