package model

import (
	"context"
	"net/http"

	"github.com/bryanwahyu/cancer-predict/internal/infra/model/onnx"
	"github.com/bryanwahyu/cancer-predict/internal/infra/model/serving"
)

// ONNXLoader downloads the artifact from artifactURL and builds an ONNX session.
func ONNXLoader(client *http.Client, artifactURL string, opts onnx.Options) Loader {
	return func(ctx context.Context) (Session, error) {
		data, err := FetchArtifact(ctx, client, artifactURL)
		if err != nil {
			return nil, err
		}
		s, err := onnx.New(data, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// ServingLoader connects to a remote model-serving endpoint.
func ServingLoader(client *http.Client, modelURL string) Loader {
	return func(ctx context.Context) (Session, error) {
		c, err := serving.Load(ctx, client, modelURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
