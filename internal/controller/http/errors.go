package http

import (
	"net/http"

	campaignentity "github.com/hoangnm/baithook/internal/domain/campaign/entity"
	linkentity "github.com/hoangnm/baithook/internal/domain/link/entity"
	publisherentity "github.com/hoangnm/baithook/internal/domain/publisher/entity"
	threadentity "github.com/hoangnm/baithook/internal/domain/thread/entity"
	"github.com/hoangnm/baithook/internal/httpx/response"
)

func handleDomainError(w http.ResponseWriter, err error) {
	switch err {
	case campaignentity.ErrCampaignNotFound,
		linkentity.ErrLinkNotFound,
		threadentity.ErrThreadNotFound,
		linkentity.ErrNoLinks:
		response.NotFound(w, err.Error())
	case campaignentity.ErrIllegalTransition:
		response.Conflict(w, err.Error())
	case campaignentity.ErrInvalidStatus, campaignentity.ErrEmptyProductName,
		linkentity.ErrEmptyName, linkentity.ErrEmptyURL,
		threadentity.ErrEmptyThreadID,
		publisherentity.ErrUnknownCounterField, publisherentity.ErrInvalidPlatform:
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "internal server error")
	}
}
