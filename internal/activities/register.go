package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ExtractChunksActivity)
	w.RegisterActivity(a.AbridgeChunkActivity)
	w.RegisterActivity(a.WriteOutputActivity)
}
