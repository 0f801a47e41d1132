package googleEmbedding

import "errors"

var (
	errEmptyResult = errors.New("embedding response carried no vectors")
	errResultCount = errors.New("embedding response vector count does not match input")
)
