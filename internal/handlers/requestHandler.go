package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anveshk/workflowgen/internal/adapter"
	"github.com/anveshk/workflowgen/internal/adapter/utils"
	"github.com/anveshk/workflowgen/internal/api"
	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/domain/jobmodel"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/pkg/applog"
)

var logRH *applog.Logger

// newJobData is the handler-side shape of an enqueue request, kept
// separate from the wire contracts so the job handler can move to its
// own package without dragging the HTTP types along.
type newJobData struct {
	id             string
	traceId        string
	jobType        jobmodel.JobType
	question       string
	documentId     string
	ingestTitle    string
	ingestText     string
	documentName   string
	documentSource string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AskHandler godoc
// @Summary      Ask a question about the corpus
// @Description  Accepts a question (optionally scoped to one document), queues a workflow job, and returns a job ID to track status.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest       true  "Question and optional document scope"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request", "addr", request.RemoteAddr)
		return
	}

	var requestData api.AskRequest
	if !decodeBody(w, request, &requestData) {
		return
	}
	if strings.TrimSpace(requestData.Question) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "question is required")
		return
	}

	enqueue(w, request, newJobData{
		jobType:    jobmodel.JobTypeAsk,
		question:   requestData.Question,
		documentId: requestData.DocumentID,
	})
}

// SummarizeHandler godoc
// @Summary      Summarize a document
// @Description  Queues a summary workflow job for one ingested document.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.SummarizeRequest  true  "Document to summarize"
// @Success      202      {object}  api.InitJobResponse   "Job successfully created"
// @Failure      400      {object}  api.JobResponse       "Invalid request data"
// @Router       /summarize [post]
func SummarizeHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request", "addr", request.RemoteAddr)
		return
	}

	var requestData api.SummarizeRequest
	if !decodeBody(w, request, &requestData) {
		return
	}
	if requestData.DocumentID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document_id is required")
		return
	}

	enqueue(w, request, newJobData{
		jobType:    jobmodel.JobTypeSummarize,
		documentId: requestData.DocumentID,
	})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

	logRH.Debug("Get Status Request", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostDocumentHandler godoc
// @Summary      Ingest a raw-text document
// @Description  Accepts a title and raw text, queues an ingestion job, and returns a job ID.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestTextRequest  true  "Document title and text"
// @Success      202      {object}  api.InitJobResponse    "Job successfully created"
// @Failure      400      {object}  api.JobResponse        "Missing title or text"
// @Router       /documents [post]
func PostDocumentHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request", "addr", request.RemoteAddr)
		return
	}

	var requestData api.IngestTextRequest
	if !decodeBody(w, request, &requestData) {
		return
	}
	if requestData.Title == "" || strings.TrimSpace(requestData.Text) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "title and text are required")
		return
	}

	enqueue(w, request, newJobData{
		jobType:     jobmodel.JobTypeIngest,
		ingestTitle: requestData.Title,
		ingestText:  requestData.Text,
	})
}

// PostIngestHandler handles the uploading of PDF or DOCX documents for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF or DOCX file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse      "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse      "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "addr", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
		return
	}

	enqueue(w, r, newJobData{
		jobType:        jobmodel.JobTypeIngest,
		documentName:   docName,
		documentSource: tempFilePath,
	})
}

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Tags         Documents
// @Produce      json
// @Success      200  {array}  api.DocumentResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	docs, err := handlerInstance.ragService.ListDocuments(r.Context())
	if err != nil {
		logRH.Error("Error listing documents", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not list documents")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(docs))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document and its vectors
// @Tags         Documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	if id == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document id is required")
		return
	}

	if err := handlerInstance.ragService.DeleteDocument(r.Context(), id); err != nil {
		switch {
		case ragerr.IsNotFound(err):
			WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		default:
			logRH.Error("Error deleting document", "docId", id, "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, id, "Could not delete document")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, request *http.Request, target interface{}) bool {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body reader", "error", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		logRH.Warn("Bad request body", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return false
	}
	return true
}
