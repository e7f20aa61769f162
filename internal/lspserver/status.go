package lspserver

import "github.com/tliron/glsp"

// Status mirrors the two states the original server's set_status calls
// drove its status bar through while generating the initial graph.
type Status string

const (
	statusLoading Status = "loading"
	statusReady   Status = "ready"
)

const (
	iconLoading = "$(loading~spin)"
	iconReady   = "$(check)"
	iconError   = "$(error)"
)

// workspaceStatusNotification is the custom notification method this
// server pushes client-side so an editor extension can render a status
// bar item, exactly as the original's set_status did around
// gen_initial_graph.
const workspaceStatusNotification = "workspace/status"

// statusParams is the payload of a workspace/status notification.
type statusParams struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

func (s *Server) notifyStatus(glspCtx *glsp.Context, status Status, message, icon string) {
	glspCtx.Notify(workspaceStatusNotification, statusParams{
		Status:  status,
		Message: message,
		Icon:    icon,
	})
}
