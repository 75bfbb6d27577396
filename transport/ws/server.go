package ws

import (
	"log"
	"net/http"

	gws "github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"htif/target"
)

// Handler upgrades each request to a websocket and serves its binary frames
// against m.
func Handler(m *target.Machine) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		conn, _, _, err := gws.UpgradeHTTP(req, rw)
		if err != nil {
			log.Printf("ws: upgrade %s: %v\n", req.RemoteAddr, err)
			return
		}
		defer conn.Close()
		log.Printf("ws: accepted %s\n", req.RemoteAddr)

		for {
			data, op, err := wsutil.ReadClientData(conn)
			if err != nil {
				log.Printf("ws: %s: %v\n", req.RemoteAddr, err)
				return
			}
			if op != gws.OpBinary {
				continue
			}

			rsp := m.Feed(data)
			if len(rsp) == 0 {
				continue
			}
			if err = wsutil.WriteServerBinary(conn, rsp); err != nil {
				log.Printf("ws: %s: %v\n", req.RemoteAddr, err)
				return
			}
		}
	})
}
