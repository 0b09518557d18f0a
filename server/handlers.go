package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/flowkit/pipeline"
	"github.com/kbukum/flowkit/timing"
	"github.com/kbukum/flowkit/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// PipelineInfo is one entry of the pipeline list.
type PipelineInfo struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Nodes int    `json:"nodes"`
	Runs  int    `json:"runs"`
}

// TimersReport is the body of the timers endpoint.
type TimersReport struct {
	Runs    int                   `json:"runs"`
	Elapsed timing.Reading        `json:"elapsed"`
	Nodes   []pipeline.NodeTiming `json:"nodes"`
}

// RegisterRoutes mounts the read-only introspection routes on r:
//
//	GET /pipelines
//	GET /pipelines/:name
//	GET /pipelines/:name/probes
//	GET /pipelines/:name/timers
//	GET /info
func RegisterRoutes(r gin.IRouter, reg *Registry) {
	r.GET("/pipelines", listPipelines(reg))
	r.GET("/pipelines/:name", withPipeline(reg, func(c *gin.Context, p *pipeline.Pipeline) {
		RespondOK(c, p.Inspect())
	}))
	r.GET("/pipelines/:name/probes", withPipeline(reg, func(c *gin.Context, p *pipeline.Pipeline) {
		RespondOK(c, p.ProbeResults())
	}))
	r.GET("/pipelines/:name/timers", withPipeline(reg, func(c *gin.Context, p *pipeline.Pipeline) {
		RespondOK(c, TimersReport{Runs: p.Runs(), Elapsed: p.Elapsed(), Nodes: p.Timers()})
	}))
	r.GET("/info", Info())
}

func listPipelines(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		names := reg.Names()
		list := make([]PipelineInfo, 0, len(names))
		for _, name := range names {
			p, err := reg.Get(name)
			if err != nil {
				continue
			}
			list = append(list, PipelineInfo{Name: p.Name(), ID: p.ID(), Nodes: p.Len(), Runs: p.Runs()})
		}
		RespondOKWithMeta(c, list, &Meta{Total: len(list)})
	}
}

func withPipeline(reg *Registry, fn func(*gin.Context, *pipeline.Pipeline)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := reg.Get(c.Param("name"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		fn(c, p)
	}
}

// Info returns a handler that reports version and build information.
func Info() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.GetVersionInfo()
		c.JSON(http.StatusOK, gin.H{
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"git_branch": v.GitBranch,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"is_release": v.IsRelease,
			"is_dirty":   v.IsDirty,
			"engine":     v.Engine,
			"uptime":     time.Since(startTime).String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
	}
}
