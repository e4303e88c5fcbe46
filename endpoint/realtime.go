package endpoint

import (
	"net/http"
	"time"

	"github.com/ariebrainware/alert-board/middleware"
	"github.com/ariebrainware/alert-board/realtime"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsPingInterval = 25 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AlertsWS godoc
// @Summary      Alert stream
// @Description  Websocket pushing {"kind":"alert.created","alert":{...}} for every new alert
// @Tags         Alert
// @Security     SessionToken
// @Router       /ws/alerts [get]
func AlertsWS(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		cl := realtime.NewClient(userID, conn)
		hub.Register(cl)

		// keep connections alive through proxies
		go func() {
			t := time.NewTicker(wsPingInterval)
			defer t.Stop()
			for {
				select {
				case <-cl.Done():
					return
				case <-t.C:
					if err := cl.Ping(); err != nil {
						hub.Unregister(cl)
						return
					}
				}
			}
		}()

		// read loop ends on client close/error
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(cl)
				return
			}
		}
	}
}
