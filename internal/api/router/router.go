package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	"gorm.io/gorm"

	"smart-recruit/internal/api/handler"
	"smart-recruit/internal/config"
	"smart-recruit/internal/parser"
)

// RegisterRoutes wires every API route onto the hertz server. When API keys
// are configured, everything except the health check requires one.
func RegisterRoutes(
	h *server.Hertz,
	cfg *config.Config,
	resumeHandler *handler.ResumeHandler,
	jobHandler *handler.JobHandler,
	rankingHandler *handler.RankingHandler,
	analyticsHandler *handler.AnalyticsHandler,
) {
	api := h.Group("/api/v1")

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	protected := api.Group("")
	if len(cfg.Server.APIKeys) > 0 {
		allowed := make(map[string]struct{}, len(cfg.Server.APIKeys))
		for _, key := range cfg.Server.APIKeys {
			allowed[key] = struct{}{}
		}
		protected.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:X-API-Key", ""),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				_, ok := allowed[key]
				return ok, nil
			}),
			keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
				ctx.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "invalid or missing API key"})
			}),
		))
	}

	protected.POST("/resumes/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "file is required"})
			return
		}
		jobID := ctx.PostForm("job_id")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to open uploaded file"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Size, fileHeader.Filename, jobID)
		if err != nil {
			if errors.Is(err, parser.ErrUnsupportedFileType) || errors.Is(err, handler.ErrFileTooLarge) {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	protected.GET("/resumes/:resume_id", func(c context.Context, ctx *app.RequestContext) {
		resume, err := resumeHandler.GetResumeStatus(c, ctx.Param("resume_id"))
		if err != nil {
			writeLookupError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resume)
	})

	protected.POST("/jobs", func(c context.Context, ctx *app.RequestContext) {
		var req handler.CreateJobRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
			return
		}
		job, err := jobHandler.CreateJob(c, &req)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, job)
	})

	protected.GET("/jobs/:job_id", func(c context.Context, ctx *app.RequestContext) {
		job, err := jobHandler.GetJob(c, ctx.Param("job_id"))
		if err != nil {
			writeLookupError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, job)
	})

	protected.POST("/ranking/run", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			JobID string `json:"job_id"`
		}
		if err := ctx.BindJSON(&req); err != nil || req.JobID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "job_id is required"})
			return
		}
		breakdowns, err := rankingHandler.RunRanking(c, req.JobID)
		if err != nil {
			if errors.Is(err, handler.ErrRankingInProgress) {
				ctx.JSON(consts.StatusConflict, utils.H{"error": err.Error()})
				return
			}
			writeLookupError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{
			"job_id":     req.JobID,
			"candidates": breakdowns,
		})
	})

	protected.GET("/ranking/job/:job_id", func(c context.Context, ctx *app.RequestContext) {
		views, err := rankingHandler.GetJobRanking(c, ctx.Param("job_id"))
		if err != nil {
			writeLookupError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{
			"job_id":     ctx.Param("job_id"),
			"candidates": views,
		})
	})

	protected.GET("/ranking/export/:job_id", func(c context.Context, ctx *app.RequestContext) {
		data, err := rankingHandler.ExportRankingCSV(c, ctx.Param("job_id"))
		if err != nil {
			writeLookupError(ctx, err)
			return
		}
		ctx.Response.Header.Set("Content-Disposition", `attachment; filename="ranking_`+ctx.Param("job_id")+`.csv"`)
		ctx.Data(consts.StatusOK, "text/csv; charset=utf-8", data)
	})

	protected.GET("/analytics/score-distribution", func(c context.Context, ctx *app.RequestContext) {
		report, err := analyticsHandler.ScoreDistribution(c)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, report)
	})

	protected.GET("/analytics/bias-report/:job_id", func(c context.Context, ctx *app.RequestContext) {
		report, err := analyticsHandler.BiasReport(c, ctx.Param("job_id"))
		if err != nil {
			writeLookupError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, report)
	})
}

func writeLookupError(ctx *app.RequestContext, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(consts.StatusNotFound, utils.H{"error": "not found"})
		return
	}
	ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
}
