package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/pipeline"
)

// handleV1Dashboard returns aggregate, formatted cards and chart series
// GET /api/v1/dashboard?month=3&metrics=EC,PH
func (s *Server) handleV1Dashboard(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}

	ds := s.data.Load()
	res := ds.Run(req)

	c.JSON(http.StatusOK, gin.H{
		"data": res,
		"meta": s.meta(ds, req, res.Empty()),
	})
}

// handleV1Summary returns only the runtime and flow aggregate
// GET /api/v1/dashboard/summary?month=3
func (s *Server) handleV1Summary(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}

	ds := s.data.Load()
	res := ds.Run(req)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"aggregate": res.Aggregate,
			"display":   res.Display,
		},
		"meta": s.meta(ds, req, res.Empty()),
	})
}

// handleV1Series returns only the chart series
// GET /api/v1/dashboard/series?month=3&metrics=PH
func (s *Server) handleV1Series(c *gin.Context) {
	req, ok := s.parseRequest(c)
	if !ok {
		return
	}

	ds := s.data.Load()
	res := ds.Run(req)

	c.JSON(http.StatusOK, gin.H{
		"data": res.Chart,
		"meta": s.meta(ds, req, res.Empty()),
	})
}

// handleV1Months returns the months available for filtering
// GET /api/v1/dashboard/months
func (s *Server) handleV1Months(c *gin.Context) {
	months := s.data.Load().Months()

	options := make([]gin.H, 0, len(months))
	for _, m := range months {
		options = append(options, gin.H{
			"value": m,
			"label": fmt.Sprintf("Mês %d", m),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": options,
		"meta": gin.H{
			"count": len(options),
		},
	})
}

// handleV1Reload rebuilds the dataset from the configured feeds
// POST /api/v1/dashboard/reload
func (s *Server) handleV1Reload(c *gin.Context) {
	if s.loader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reload is not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	ds := s.loader.Load(ctx)
	s.data.Store(ds)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"readings": ds.Series().Len(),
			"months":   ds.Months(),
		},
		"meta": gin.H{
			"loaded_at": ds.LoadedAt().Format(time.RFC3339),
		},
	})
}

// parseRequest reads ?month and ?metrics, writing a 400 on invalid input.
func (s *Server) parseRequest(c *gin.Context) (pipeline.Request, bool) {
	var req pipeline.Request

	if monthStr := c.Query("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return req, false
		}
		if err := pipeline.ValidateMonth(month); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return req, false
		}
		req.Month = &month
	}

	req.Metrics = s.cfg.DefaultMetrics
	if list, ok := c.GetQuery("metrics"); ok {
		set, err := models.ParseMetrics(list)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return req, false
		}
		req.Metrics = set
	}
	if req.Metrics == nil {
		req.Metrics = models.NewMetricSet(models.AllMetrics...)
	}

	return req, true
}

func (s *Server) meta(ds *pipeline.Dataset, req pipeline.Request, empty bool) gin.H {
	meta := gin.H{
		"empty":     empty,
		"metrics":   req.Metrics.List(),
		"loaded_at": ds.LoadedAt().Format(time.RFC3339),
	}
	if req.Month != nil {
		meta["month"] = *req.Month
	}
	return meta
}
