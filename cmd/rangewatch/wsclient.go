package main

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{} // use default options

// clientStreamHandler upgrades to a websocket, sends the current snapshot
// and then every new one.
func (srv *server) clientStreamHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade failure:", err)
		return
	}

	// Reader closure, clients have nothing to say but we need to notice them leaving.
	go func() {
		for {
			if _, _, err := c.NextReader(); err != nil {
				log.Println("Disconnecting client: ", err)
				break
			}
		}
		c.Close()
	}()

	srv.clientslock.Lock()
	defer srv.clientslock.Unlock()
	if s, ok := srv.state.Latest(); ok {
		if err := c.WriteJSON(s); err != nil {
			c.Close()
			return
		}
	}
	srv.clientStreams = append(srv.clientStreams, c)
}

// push writes msg to all connected websockets.
// Any socket that is dead will be removed here.
func (srv *server) push(msg []byte) {
	deadstreams := []int{}
	srv.clientslock.Lock()
	defer srv.clientslock.Unlock()
	for i, cs := range srv.clientStreams {
		err := cs.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			deadstreams = append(deadstreams, i)
		}
	}
	// remove dead streams now
	for i := len(deadstreams) - 1; i > -1; i-- {
		idx := deadstreams[i]
		srv.clientStreams[idx].Close()
		srv.clientStreams = append(srv.clientStreams[:idx], srv.clientStreams[idx+1:]...)
	}
}

// closeStreams disconnects every websocket client.
func (srv *server) closeStreams() {
	srv.clientslock.Lock()
	defer srv.clientslock.Unlock()
	for _, cs := range srv.clientStreams {
		cs.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		cs.Close()
	}
	srv.clientStreams = nil
}
