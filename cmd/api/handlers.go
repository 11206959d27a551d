package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campusgate/internal/academic"
	"campusgate/internal/attendance"
	"campusgate/internal/auth"
	"campusgate/internal/config"
	"campusgate/internal/dept"
	"campusgate/internal/identity"
	"campusgate/internal/notify"
	"campusgate/internal/queue"
	"campusgate/internal/settings"
)

// api bundles the services behind the HTTP handlers.
type api struct {
	cfg      config.App
	people   *identity.Repository
	resolver *identity.Resolver
	scans    *attendance.Service
	logs     *attendance.Repository
	academic *academic.Repository
	classes  *academic.Resolver
	notify   *notify.Service
	settings *settings.Repository
	importer *identity.Importer
	queue    queue.Queue
	queueCtx context.Context
}

func (a *api) register(r *gin.Engine, bearer gin.HandlerFunc) {
	r.POST("/v1/auth/activate", a.activate)
	r.POST("/v1/auth/login", a.login)

	v1 := r.Group("/v1", bearer)

	security := v1.Group("", auth.RequireRole("security"))
	security.POST("/scan", a.scan)

	staff := v1.Group("", auth.RequireRole("hod", "security", "coordinator"))
	staff.GET("/logs", a.listLogs)
	staff.GET("/logs/today", a.listTodayLogs)
	staff.GET("/alerts", a.listAlerts)
	staff.GET("/stats/trend", a.trend)

	hod := v1.Group("", auth.RequireRole("hod"))
	hod.DELETE("/logs", a.purgeLogs)
	hod.GET("/students", a.listStudents)
	hod.POST("/import/preview", a.importPreview)
	hod.POST("/import", a.importRows)
	hod.GET("/settings/rules", a.getRules)
	hod.PUT("/settings/rules", a.putRules)

	v1.GET("/me/logs", a.myLogs)
	v1.GET("/structure", a.getStructure)
	v1.GET("/assignments", a.listAssignments)
	v1.GET("/assignments/suggest", a.suggestFaculty)
	v1.GET("/timetables/:branch/:year/:section", a.getTimetable)
	v1.GET("/notifications", a.listNotifications)

	coordinator := v1.Group("", auth.RequireRole("coordinator", "hod"))
	coordinator.PUT("/structure", a.putStructure)
	coordinator.POST("/assignments", a.createAssignment)
	coordinator.DELETE("/assignments/:id", a.deleteAssignment)
	coordinator.PUT("/timetables/:branch/:year/:section", a.putTimetable)
	coordinator.POST("/notifications", a.createNotification)
	coordinator.DELETE("/notifications/:id", a.deleteNotification)
}

// --- auth ---

func (a *api) activate(c *gin.Context) {
	var req struct {
		Role      string `json:"role" binding:"required"`
		UniqueID  string `json:"unique_id" binding:"required"`
		AccountID string `json:"account_id" binding:"required"`
		Email     string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := identity.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	person, err := a.people.Claim(c.Request.Context(), role, req.UniqueID, req.AccountID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case errors.Is(err, identity.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "profile already activated"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "activation failed"})
		}
		return
	}

	a.issueTokens(c, http.StatusCreated, req.AccountID, string(role), person.ID, a.deptFor(c.Request.Context(), role, person.ID))
}

func (a *api) login(c *gin.Context) {
	var req struct {
		AccountID string `json:"account_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acct, err := a.people.AccountByID(c.Request.Context(), req.AccountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if acct == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not activated"})
		return
	}

	personID := req.AccountID
	deptName := ""
	if p, err := a.resolver.Resolve(c.Request.Context(), req.AccountID); err == nil {
		personID = p.ID
		deptName = p.Dept
	}
	a.issueTokens(c, http.StatusOK, req.AccountID, string(acct.Role), personID, deptName)
}

func (a *api) issueTokens(c *gin.Context, status int, accountID, role, personID, deptName string) {
	tokens, err := auth.Issue(accountID, role, personID, deptName,
		a.cfg.JWTIssuer, a.cfg.JWTSigningKey, a.cfg.AccessTTL, a.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(status, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"role":          role,
		"person_id":     personID,
	})
}

func (a *api) deptFor(ctx context.Context, role identity.Role, id string) string {
	switch role {
	case identity.RoleStudent:
		if p, err := a.people.StudentByRoll(ctx, id); err == nil && p != nil {
			return p.Dept
		}
	case identity.RoleFaculty:
		if p, err := a.people.FacultyByID(ctx, id); err == nil && p != nil {
			return p.Dept
		}
	}
	return ""
}

// --- scanning ---

func (a *api) scan(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, _ := auth.FromContext(c)
	gateID := claims.PersonID
	if gateID == "" {
		gateID = claims.Subject
	}

	result, err := a.scans.Scan(c.Request.Context(), req.Code, gateID)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid ID: Record not found."})
		case errors.Is(err, attendance.ErrDailyLimit):
			c.JSON(http.StatusForbidden, gin.H{"error": "Daily Limit Reached: Already checked out today."})
		case errors.Is(err, attendance.ErrRoleNotAllowed):
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized Role"})
		case errors.Is(err, attendance.ErrDuplicateScan):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "duplicate scan"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		}
		return
	}

	evt := attendance.ScanEvent{
		LogID:        result.Log.ID,
		PersonID:     result.Log.PersonID,
		Role:         result.Log.Role,
		Name:         result.Log.Name,
		Type:         result.Log.Type,
		ParentMobile: result.Person.ParentMobile,
	}
	if body, err := json.Marshal(evt); err == nil {
		if err := a.queue.Publish(c.Request.Context(), queue.Message{Type: "scan", Body: body}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"type": result.Log.Type,
		"person": gin.H{
			"id":   result.Person.ID,
			"name": result.Person.Name,
			"role": result.Person.Role,
			"dept": result.Person.Dept,
		},
	})
}

// --- logs, alerts, stats ---

func (a *api) myLogs(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	logs, err := a.logs.LogsByPerson(c.Request.Context(), claims.PersonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (a *api) listLogs(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = attendance.LocalDate(timeNow())
	}
	a.logsForDate(c, date)
}

func (a *api) listTodayLogs(c *gin.Context) {
	a.logsForDate(c, attendance.LocalDate(timeNow()))
}

func (a *api) logsForDate(c *gin.Context, date string) {
	logs, err := a.logs.LogsByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	logs = attendance.FilterDept(logs, c.Query("dept"), dept.Broad)
	c.JSON(http.StatusOK, gin.H{"date": date, "logs": logs})
}

func (a *api) listAlerts(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	alerts, err := a.logs.ListAlerts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (a *api) trend(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 31 {
			days = parsed
		}
	}
	dates := attendance.DateRange(timeNow(), days)
	logs, err := a.logs.LogsInRange(c.Request.Context(), dates[0], dates[len(dates)-1])
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	logs = attendance.FilterDept(logs, c.Query("dept"), dept.Broad)
	c.JSON(http.StatusOK, gin.H{"trend": attendance.BuildTrend(logs, dates)})
}

func (a *api) purgeLogs(c *gin.Context) {
	count, err := a.logs.PurgeLogs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purge failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": count})
}

// --- roster ---

func (a *api) listStudents(c *gin.Context) {
	students, err := a.people.ListStudents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	branch := c.Query("branch")
	section := c.Query("section")
	var out []identity.Person
	for _, s := range students {
		if branch != "" && dept.Strict(s.Dept) != dept.Strict(branch) {
			continue
		}
		if section != "" && s.Section != section {
			continue
		}
		out = append(out, s)
	}
	c.JSON(http.StatusOK, gin.H{"students": out})
}

// --- academic structure ---

func (a *api) getStructure(c *gin.Context) {
	s, err := a.academic.GetStructure(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (a *api) putStructure(c *gin.Context) {
	var req struct {
		Structure       academic.Structure `json:"structure" binding:"required"`
		ExpectedVersion int                `json:"expected_version" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := a.academic.UpdateStructure(c.Request.Context(), req.Structure, req.ExpectedVersion)
	if err != nil {
		if errors.Is(err, academic.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "structure changed since last read"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- assignments ---

func (a *api) createAssignment(c *gin.Context) {
	var req academic.Assignment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, _ := auth.FromContext(c)
	req.AssignedBy = claims.Subject

	created, err := a.academic.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *api) deleteAssignment(c *gin.Context) {
	err := a.academic.DeleteAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, academic.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) listAssignments(c *gin.Context) {
	ctx := c.Request.Context()

	if branch := c.Query("branch"); branch != "" {
		year := c.Query("year")
		section := c.Query("section")
		if year != "" && section != "" {
			out, err := a.classes.ClassAssignments(ctx, branch, year, section)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"assignments": out})
			return
		}
		out, err := a.academic.AssignmentsByBranch(ctx, branch)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"assignments": out})
		return
	}

	facultyID := c.Query("faculty_id")
	if facultyID == "" {
		claims, _ := auth.FromContext(c)
		facultyID = claims.PersonID
	}
	out, err := a.academic.AssignmentsByFaculty(ctx, facultyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": out})
}

func (a *api) suggestFaculty(c *gin.Context) {
	branch := c.Query("branch")
	year := c.Query("year")
	section := c.Query("section")
	subjectCode := c.Query("subject_code")
	if branch == "" || year == "" || section == "" || subjectCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch, year, section and subject_code required"})
		return
	}

	assignments, err := a.classes.ClassAssignments(c.Request.Context(), branch, year, section)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if match, ok := academic.Suggest(assignments, subjectCode); ok {
		c.JSON(http.StatusOK, gin.H{"mapped": true, "faculty_id": match.FacultyID, "faculty_name": match.FacultyName})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mapped": false, "faculty_id": "", "faculty_name": "TBA"})
}

// --- timetables ---

func (a *api) getTimetable(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	t, err := a.academic.GetTimetable(c.Request.Context(), c.Param("branch"), year, c.Param("section"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no timetable saved"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (a *api) putTimetable(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	var req struct {
		Schedule        map[string][]academic.Slot `json:"schedule" binding:"required"`
		ExpectedVersion int                        `json:"expected_version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, _ := auth.FromContext(c)
	t := academic.Timetable{
		Branch:    c.Param("branch"),
		Year:      year,
		Section:   c.Param("section"),
		Schedule:  req.Schedule,
		UpdatedBy: claims.Subject,
	}
	if err := a.academic.SaveTimetable(c.Request.Context(), t, req.ExpectedVersion); err != nil {
		if errors.Is(err, academic.ErrVersionConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "timetable changed since last read"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- import ---

func (a *api) importPreview(c *gin.Context) {
	kind, rows, ok := a.bindImport(c)
	if !ok {
		return
	}
	structure, err := a.academic.GetStructure(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "structure lookup failed"})
		return
	}
	results := a.importer.Preview(rows, kind, structure)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (a *api) importRows(c *gin.Context) {
	kind, rows, ok := a.bindImport(c)
	if !ok {
		return
	}
	structure, err := a.academic.GetStructure(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "structure lookup failed"})
		return
	}
	stats, results, err := a.importer.Import(c.Request.Context(), rows, kind, structure)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed", "stats": stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "results": results})
}

func (a *api) bindImport(c *gin.Context) (identity.ImportKind, []identity.Row, bool) {
	var req struct {
		Kind string         `json:"kind" binding:"required"`
		Rows []identity.Row `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", nil, false
	}
	kind := identity.ImportKind(req.Kind)
	if kind != identity.ImportStudents && kind != identity.ImportFaculty {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be students or faculty"})
		return "", nil, false
	}
	return kind, req.Rows, true
}

// --- notifications ---

func (a *api) createNotification(c *gin.Context) {
	var req struct {
		Title      string `json:"title" binding:"required"`
		Message    string `json:"message" binding:"required"`
		TargetRole string `json:"target_role" binding:"required"`
		TargetDept string `json:"target_dept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TargetRole != notify.TargetStudents && req.TargetRole != notify.TargetFaculty && req.TargetRole != notify.TargetAll {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_role must be student, faculty or all"})
		return
	}

	claims, _ := auth.FromContext(c)
	n := notify.Notification{
		Title:      req.Title,
		Message:    req.Message,
		SenderID:   claims.Subject,
		SenderRole: claims.Role,
		TargetRole: req.TargetRole,
		TargetDept: req.TargetDept,
	}
	created, err := a.notify.Broadcast(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *api) listNotifications(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	all, err := a.notify.Recent(c.Request.Context(), claims.Role, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notify.FilterVisible(all, claims.Role, claims.Dept)})
}

func (a *api) deleteNotification(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	err := a.notify.Delete(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		if errors.Is(err, notify.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- settings ---

func (a *api) getRules(c *gin.Context) {
	rules, err := a.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (a *api) putRules(c *gin.Context) {
	var rules settings.GateRules
	if err := c.ShouldBindJSON(&rules); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.settings.Put(c.Request.Context(), rules); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
