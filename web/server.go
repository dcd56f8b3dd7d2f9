package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/scstudio/status"
	"github.com/mogaika/scstudio/vfs"
)

var ServerDirectory vfs.Directory

func NewRouter(d vfs.Directory) http.Handler {
	ServerDirectory = d

	r := mux.NewRouter()
	r.HandleFunc("/action/{file}/{action}", HandlerActionFile)
	r.HandleFunc("/json/unit/{file}", HandlerAjaxUnit)
	r.HandleFunc("/json/file/{file}", HandlerAjaxFile)
	r.HandleFunc("/json/dir", HandlerAjaxDir)
	r.HandleFunc("/dump/{file}", HandlerDumpFile)
	r.HandleFunc("/upload/{file}", HandlerUploadFile).Methods("POST")
	r.HandleFunc("/ws/status", status.HandlerWebsocket)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
}

func StartServer(addr string, d vfs.Directory) error {
	h := handlers.LoggingHandler(os.Stdout, NewRouter(d))

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
