package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portchecker/internal/core/model"
)

func (r *Router) setupStatusRoutes(api *gin.RouterGroup) {
	api.GET("/responders", r.handleResponders)
	api.GET("/host", r.handleHost)
}

// handleResponders 所有端口绑定的快照，可用 ?protocol=tcp|udp 过滤
func (r *Router) handleResponders(c *gin.Context) {
	proto := model.Protocol(c.Query("protocol"))
	if proto != "" && proto != model.ProtocolTCP && proto != model.ProtocolUDP {
		c.JSON(http.StatusBadRequest, gin.H{"error": "protocol must be tcp or udp"})
		return
	}

	all := r.source.Statuses()
	items := make([]model.ResponderStatus, 0, len(all))
	listening := 0
	for _, st := range all {
		if proto != "" && st.Protocol != proto {
			continue
		}
		if st.State == model.BindingListening {
			listening++
		}
		items = append(items, st)
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(items),
		"listening": listening,
		"items":     items,
	})
}

// handleHost 主机信息与公网 IP
func (r *Router) handleHost(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"public_ip": r.publicIP,
		"host":      r.hostInfo(),
	})
}
