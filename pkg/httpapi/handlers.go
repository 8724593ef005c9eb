package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"avaneesh/ddc-go/pkg/bus"
	"avaneesh/ddc-go/pkg/ddc"
	"avaneesh/ddc-go/pkg/mccs"
)

// DisplayInfo describes a managed display
type DisplayInfo struct {
	ID      string     `json:"id"`
	Pending int        `json:"pending"`
	Stats   *bus.Stats `json:"stats,omitempty"`
}

// VCPValue is a VCP feature reading
type VCPValue struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Function string `json:"function"`
	Type     string `json:"type"`
	Current  uint16 `json:"current"`
	Maximum  uint16 `json:"maximum"`
}

// VCPFeature is a supported VCP code from the capability string
type VCPFeature struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Values []string `json:"values,omitempty"`
}

// CapabilitiesResponse is a parsed capability string
type CapabilitiesResponse struct {
	Prot        string       `json:"prot,omitempty"`
	Type        string       `json:"type,omitempty"`
	Model       string       `json:"model,omitempty"`
	MCCSVersion string       `json:"mccs_ver,omitempty"`
	Cmds        []string     `json:"cmds"`
	VCP         []VCPFeature `json:"vcp"`
}

// SetVCPRequest is the body of a set request
type SetVCPRequest struct {
	Value *int `json:"value" binding:"required,min=0,max=65535"`
}

func hexString(v uint16) string {
	return fmt.Sprintf("%02X", v)
}

func (s *Server) display(c *gin.Context) (*ddc.Display, bool) {
	id := c.Param("id")
	d, ok := s.manager.Display(id)
	if !ok {
		errorResponse(c, http.StatusNotFound, "Display not found", fmt.Errorf("%w: %s", ddc.ErrDisplayNotFound, id))
		return nil, false
	}
	return d, true
}

func (s *Server) code(c *gin.Context) (mccs.VCPCode, bool) {
	code, ok := mccs.LookupCode(c.Param("code"))
	if !ok {
		errorResponse(c, http.StatusBadRequest, "Unknown VCP code", fmt.Errorf("no VCP code named %q", c.Param("code")))
		return 0, false
	}
	return code, true
}

func displayInfo(d *ddc.Display) DisplayInfo {
	info := DisplayInfo{ID: d.ID(), Pending: d.Pending()}
	if stats, ok := d.Statistics(); ok {
		info.Stats = &stats
	}
	return info
}

func (s *Server) health(c *gin.Context) {
	successResponse(c, http.StatusOK, "OK", gin.H{"displays": s.manager.DisplayCount()})
}

func (s *Server) listDisplays(c *gin.Context) {
	ids := s.manager.IDs()
	displays := make([]DisplayInfo, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.manager.Display(id); ok {
			displays = append(displays, displayInfo(d))
		}
	}
	successResponse(c, http.StatusOK, "Displays retrieved successfully", displays)
}

func (s *Server) getDisplay(c *gin.Context) {
	d, ok := s.display(c)
	if !ok {
		return
	}
	successResponse(c, http.StatusOK, "Display retrieved successfully", displayInfo(d))
}

func (s *Server) capabilityString(c *gin.Context, d *ddc.Display) (string, error) {
	ctx := c.Request.Context()
	if s.cache == nil {
		return d.CapabilitiesString(ctx)
	}
	return s.cache.Fetch(ctx, d.ID(), d.CapabilitiesString)
}

func (s *Server) getCapabilities(c *gin.Context) {
	d, ok := s.display(c)
	if !ok {
		return
	}

	raw, err := s.capabilityString(c, d)
	if err != nil {
		s.logger.Warn("Display %s: capabilities failed: %v", d.ID(), err)
		displayError(c, "Failed to read capabilities", err)
		return
	}

	if c.Query("raw") != "" {
		successResponse(c, http.StatusOK, "Capabilities retrieved successfully", gin.H{"raw": raw})
		return
	}

	caps, err := mccs.ParseCapabilities(raw)
	if err != nil {
		displayError(c, "Invalid capability string", err)
		return
	}

	resp := CapabilitiesResponse{
		Prot:        caps.Prot,
		Type:        caps.Type,
		Model:       caps.Model,
		MCCSVersion: caps.MCCSVersion,
		Cmds:        make([]string, 0, len(caps.Cmds)),
		VCP:         make([]VCPFeature, 0, len(caps.VCP)),
	}
	for _, cmd := range caps.Cmds {
		resp.Cmds = append(resp.Cmds, hexString(uint16(cmd)))
	}
	for _, vcp := range caps.VCP {
		f := VCPFeature{Code: hexString(uint16(vcp.Code)), Name: vcp.Code.String(), Slug: vcp.Code.Slug()}
		for _, v := range vcp.Values {
			f.Values = append(f.Values, hexString(v))
		}
		resp.VCP = append(resp.VCP, f)
	}
	successResponse(c, http.StatusOK, "Capabilities retrieved successfully", resp)
}

func (s *Server) forgetCapabilities(c *gin.Context) {
	d, ok := s.display(c)
	if !ok {
		return
	}
	if s.cache != nil {
		if err := s.cache.Delete(d.ID()); err != nil {
			errorResponse(c, http.StatusInternalServerError, "Failed to update capability cache", err)
			return
		}
	}
	successResponse(c, http.StatusOK, "Capability cache cleared", gin.H{"id": d.ID()})
}

func (s *Server) getVCP(c *gin.Context) {
	d, ok := s.display(c)
	if !ok {
		return
	}
	code, ok := s.code(c)
	if !ok {
		return
	}

	reply, err := d.GetVCPFeature(c.Request.Context(), code)
	if err != nil {
		displayError(c, "Failed to read VCP feature", err)
		return
	}

	successResponse(c, http.StatusOK, "VCP feature retrieved successfully", VCPValue{
		Code:     hexString(uint16(reply.Code)),
		Name:     reply.Code.String(),
		Slug:     reply.Code.Slug(),
		Function: reply.Code.Function().String(),
		Type:     reply.Type.String(),
		Current:  reply.Current,
		Maximum:  reply.Maximum,
	})
}

func (s *Server) setVCP(c *gin.Context) {
	d, ok := s.display(c)
	if !ok {
		return
	}
	code, ok := s.code(c)
	if !ok {
		return
	}

	var req SetVCPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	value := uint16(*req.Value)
	if err := d.SetVCPFeature(c.Request.Context(), code, value); err != nil {
		displayError(c, "Failed to set VCP feature", err)
		return
	}

	s.logger.Info("Display %s: %s set to %d", d.ID(), code, value)
	successResponse(c, http.StatusOK, "VCP feature set successfully", gin.H{
		"code":  hexString(uint16(code)),
		"value": value,
	})
}

func (s *Server) save(c *gin.Context) {
	d, ok := s.display(c)
	if !ok {
		return
	}

	if err := d.SaveCurrentSettings(c.Request.Context()); err != nil {
		displayError(c, "Failed to save current settings", err)
		return
	}
	successResponse(c, http.StatusOK, "Current settings saved", gin.H{"id": d.ID()})
}
