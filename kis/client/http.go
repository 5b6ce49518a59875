package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openkis/gokis/pkg/logger"
)

// Request describes one authenticated API call. TrID selects the
// operation; Page, when set, threads the continuation cursor.
type Request struct {
	Method string
	Path   string
	TrID   string
	Params map[string]string
	Body   any
	Page   *Page
}

// responseEnvelope is the common frame every JSON response carries.
type responseEnvelope struct {
	RtCd  string `json:"rt_cd"`
	MsgCd string `json:"msg_cd"`
	Msg1  string `json:"msg1"`

	CtxAreaFK100 string `json:"ctx_area_fk100"`
	CtxAreaNK100 string `json:"ctx_area_nk100"`
	CtxAreaFK200 string `json:"ctx_area_fk200"`
	CtxAreaNK200 string `json:"ctx_area_nk200"`
}

// Fetch performs one API call, decodes the payload into out and returns
// the continuation state. The call blocks on the domain rate limiter.
func (c *Client) Fetch(ctx context.Context, req Request, out any) (PageResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return PageResult{}, err
	}
	token, err := c.AccessToken(ctx)
	if err != nil {
		return PageResult{}, err
	}

	requestID := uuid.NewString()
	rc := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("appkey", c.cfg.AppKey).
		SetHeader("appsecret", c.cfg.AppSecret).
		SetHeader("tr_id", req.TrID).
		SetHeader("custtype", "P")

	params := make(map[string]string, len(req.Params)+2)
	for k, v := range req.Params {
		params[k] = v
	}
	if req.Page != nil {
		rc.SetHeader("tr_cont", continuationHeader(*req.Page))
		if req.Page.Wide {
			params["CTX_AREA_FK200"] = req.Page.Search
			params["CTX_AREA_NK200"] = req.Page.Key
		} else {
			params["CTX_AREA_FK100"] = req.Page.Search
			params["CTX_AREA_NK100"] = req.Page.Key
		}
	}
	if len(params) > 0 {
		rc.SetQueryParams(params)
	}
	if req.Body != nil {
		rc.SetBody(req.Body)
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	log := logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"tr_id":      req.TrID,
		"path":       req.Path,
	})
	log.Debug("api request")

	var resp *restyResponse
	switch method {
	case http.MethodGet:
		resp, err = wrap(rc.Get(req.Path))
	case http.MethodPost:
		resp, err = wrap(rc.Post(req.Path))
	default:
		return PageResult{}, errors.Errorf("unsupported method %s", method)
	}
	if err != nil {
		return PageResult{}, errors.Wrapf(err, "%s %s", method, req.Path)
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(resp.body, &envelope); err != nil {
		return PageResult{}, errors.Wrapf(err, "decode %s response", req.TrID)
	}
	if envelope.RtCd != "0" {
		apiErr := &APIError{
			StatusCode: resp.status,
			ReturnCode: envelope.RtCd,
			MessageCd:  envelope.MsgCd,
			Message:    envelope.Msg1,
		}
		log.WithField("msg_cd", envelope.MsgCd).Warn("api request failed")
		return PageResult{}, apiErr
	}
	if resp.status >= 400 {
		return PageResult{}, errors.Errorf("%s %s: status %d", method, req.Path, resp.status)
	}

	if out != nil {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return PageResult{}, errors.Wrapf(err, "decode %s payload", req.TrID)
		}
	}

	result := PageResult{Last: true}
	if req.Page != nil {
		status := pageStatus(resp.trCont)
		result.Last = !status.hasNext()
		result.Next = Page{
			Search: envelope.CtxAreaFK100,
			Key:    envelope.CtxAreaNK100,
			Size:   req.Page.Size,
		}
		if result.Next.Search == "" && result.Next.Key == "" {
			result.Next = Page{
				Search: envelope.CtxAreaFK200,
				Key:    envelope.CtxAreaNK200,
				Size:   req.Page.Size,
				Wide:   envelope.CtxAreaFK200 != "" || envelope.CtxAreaNK200 != "",
			}
		}
	}
	return result, nil
}

func continuationHeader(p Page) string {
	if p.IsFirst() {
		return ""
	}
	return "N"
}

// restyResponse narrows the transport response to what Fetch reads.
type restyResponse struct {
	status int
	trCont string
	body   []byte
}

func wrap(resp *resty.Response, err error) (*restyResponse, error) {
	if err != nil {
		return nil, err
	}
	return &restyResponse{
		status: resp.StatusCode(),
		trCont: strings.TrimSpace(resp.Header().Get("tr_cont")),
		body:   resp.Body(),
	}, nil
}
