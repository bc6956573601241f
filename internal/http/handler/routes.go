package handler

import (
	"context"
	"database/sql"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"filedrop/internal/http/middleware"
	"filedrop/internal/model"
	"filedrop/internal/service"
)

const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"

	defaultExpiryOption = "24"
)

// identity reads the authenticated user injected by the fronting proxy.
// Session resolution itself is outside this service.
func identity(c *fiber.Ctx) (string, model.Role, bool) {
	id := c.Get(userIDHeader)
	role, err := model.ParseRole(c.Get(userRoleHeader))
	if id == "" || err != nil {
		return "", "", false
	}
	return id, role, true
}

func unauthorized(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid identity")
}

// bearerSecret extracts the shared secret from the Authorization header.
func bearerSecret(c *fiber.Ctx) string {
	return strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// serveLimit guards the raw/preview serving paths; pass nil to disable.
func RegisterRoutes(app *fiber.App, db *sql.DB, uploadSvc service.UploadService, contentSvc service.ContentService, cleanupSvc service.CleanupService, serveLimit fiber.Handler) {
	if serveLimit == nil {
		serveLimit = middleware.Noop()
	}

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/files", UploadFile(uploadSvc))
	app.Get("/files", ListFiles(contentSvc))
	app.Get("/files/:id", GetFile(contentSvc))
	app.Get("/files/:id/raw", serveLimit, DownloadFile(contentSvc))
	app.Get("/files/:id/preview", serveLimit, PreviewFile(contentSvc))
	app.Get("/files/:id/link", GetDownloadLink(contentSvc))
	app.Delete("/files/:id", DeleteFile(contentSvc))
	app.Patch("/files/:id", UpdateFile(contentSvc))

	app.Get("/s/:slug", ResolveSlug(contentSvc))
	app.Get("/users/me/usage", GetUsage(contentSvc))

	app.Post("/admin/cleanup", RunCleanup(cleanupSvc))
	app.Post("/admin/reconcile", RunReconcile(cleanupSvc))
}

// HealthCheck verifies database connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadFile handles multipart uploads (field name: file). Optional form
// fields: filename, directory, slug, expiry.
func UploadFile(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, ok := identity(c)
		if !ok {
			return unauthorized(c)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		expiry := c.FormValue("expiry")
		if expiry == "" {
			expiry = defaultExpiryOption
		}

		res, err := svc.Upload(c.UserContext(), service.UploadInput{
			UserID:           userID,
			Role:             role,
			Data:             data,
			OriginalFilename: fh.Filename,
			CustomFilename:   c.FormValue("filename"),
			Directory:        c.FormValue("directory"),
			Slug:             c.FormValue("slug"),
			ExpiryOption:     expiry,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// ListFiles returns the caller's own content, paginated.
func ListFiles(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, ok := identity(c)
		if !ok {
			return unauthorized(c)
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), userID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetFile returns content metadata. Expired content yields 410.
func GetFile(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(content)
	}
}

// DownloadFile streams the raw file bytes.
func DownloadFile(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, content, err := svc.Open(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, content.ContentType)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+content.Filename+`"`)
		return c.SendStream(rc, int(content.Size))
	}
}

// PreviewFile streams the thumbnail, or 404 when the content has none.
func PreviewFile(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, _, err := svc.OpenPreview(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "image/jpeg")
		return c.SendStream(rc)
	}
}

// GetDownloadLink returns a presigned URL for downloading straight from
// object storage.
func GetDownloadLink(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Link(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ResolveSlug redirects a short URL to the canonical file URL.
func ResolveSlug(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, err := svc.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect("/files/"+content.ID, fiber.StatusFound)
	}
}

// DeleteFile removes content. Owners may delete their own; admins anything.
func DeleteFile(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, ok := identity(c)
		if !ok {
			return unauthorized(c)
		}
		if err := svc.Delete(c.UserContext(), c.Params("id"), userID, role); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type updateRequest struct {
	Filename *string `json:"filename"`
	Expiry   *string `json:"expiry"`
	Slug     *string `json:"slug"`
}

// UpdateFile applies an admin edit to filename, expiry or slug.
func UpdateFile(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role, ok := identity(c)
		if !ok {
			return unauthorized(c)
		}
		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		content, err := svc.Update(c.UserContext(), c.Params("id"), role, service.UpdateInput{
			Filename:     req.Filename,
			ExpiryOption: req.Expiry,
			Slug:         req.Slug,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(content)
	}
}

// GetUsage reports the caller's active storage usage against their quota.
func GetUsage(svc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, ok := identity(c)
		if !ok {
			return unauthorized(c)
		}
		report, err := svc.Usage(c.UserContext(), userID, role)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(report)
	}
}

// RunCleanup triggers an expiry sweep, authenticated by the shared secret.
func RunCleanup(svc service.CleanupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Authorize(bearerSecret(c)); err != nil {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "forbidden")
		}
		res, err := svc.Sweep(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// RunReconcile triggers the orphan-blob reconciliation pass.
func RunReconcile(svc service.CleanupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Authorize(bearerSecret(c)); err != nil {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "forbidden")
		}
		res, err := svc.Reconcile(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
