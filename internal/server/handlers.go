package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rchd21/Hackathon-PLM-DPM/internal/fault"
	"github.com/Rchd21/Hackathon-PLM-DPM/internal/store"
)

// defaultImportLimit bounds a topic import when the client gives none.
const defaultImportLimit = 20

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListRegulations(c *gin.Context) {
	regs, err := s.engine.ListRegulations(c.Request.Context(), c.Query("country"), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regulations": regs})
}

func (s *Server) handleGetRegulation(c *gin.Context) {
	reg, err := s.engine.GetRegulation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (s *Server) handleListVersions(c *gin.Context) {
	versions, err := s.engine.ListRegulationVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

func (s *Server) handleImportUS(c *gin.Context) {
	limit := defaultImportLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, fault.New(fault.KindInvalid, "", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	report, err := s.engine.ImportUS(c.Request.Context(), c.Query("topic"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleImportEU(c *gin.Context) {
	outcome, err := s.engine.ImportEU(c.Request.Context(), c.Query("celex_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleListRequirements(c *gin.Context) {
	regID := c.Query("regulation_id")
	if regID == "" {
		respondError(c, fault.New(fault.KindInvalid, "", "regulation_id is required"))
		return
	}
	recs, err := s.engine.Requirements(c.Request.Context(), regID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requirements": recs})
}

func (s *Server) handleExtract(c *gin.Context) {
	regID := c.Query("regulation_id")
	if regID == "" {
		respondError(c, fault.New(fault.KindInvalid, "", "regulation_id is required"))
		return
	}
	recs, err := s.engine.ExtractLatest(c.Request.Context(), regID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requirements": recs})
}

func (s *Server) handleImpact(c *gin.Context) {
	assessment, err := s.engine.Impact(c.Request.Context(), c.Param("requirement_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

func (s *Server) handleHistory(c *gin.Context) {
	filter := store.LedgerFilter{SubjectID: c.Query("subject_id")}

	parse := func(name string) (time.Time, bool) {
		raw := c.Query(name)
		if raw == "" {
			return time.Time{}, true
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, fault.New(fault.KindInvalid, "", name+" must be RFC 3339"))
			return time.Time{}, false
		}
		return ts, true
	}

	var ok bool
	if filter.Since, ok = parse("since"); !ok {
		return
	}
	if filter.Until, ok = parse("until"); !ok {
		return
	}

	entries, err := s.engine.History(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
