package http_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/generated/servers"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func (suite *HTTPServerTestSuite) dial(token string, lastAcked uint64) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(suite.server.URL, "http") + "/ws/orders"
	if lastAcked > 0 {
		url += "?lastAckedSequenceId=" + strconv.FormatUint(lastAcked, 10)
	}

	ctx, cancel := context.WithTimeout(suite.T().Context(), 5*time.Second)
	defer cancel()
	return websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + token}},
	})
}

func (suite *HTTPServerTestSuite) read(conn *websocket.Conn) servers.EventMessage {
	ctx, cancel := context.WithTimeout(suite.T().Context(), 5*time.Second)
	defer cancel()

	var msg servers.EventMessage
	suite.Require().NoError(wsjson.Read(ctx, conn, &msg))
	return msg
}

func (suite *HTTPServerTestSuite) TestPushChannelDeliversEvents() {
	conn, _, err := suite.dial(suite.operatorToken, 0)
	suite.Require().NoError(err)
	defer conn.CloseNow()

	created := suite.createOrder(suite.customerToken, servers.NewOrder{TotalAmount: "5.00", PaymentMethod: servers.COD})
	status, _ := suite.transition("process", created.Id, suite.adminToken, servers.TransitionRequest{ExpectedVersion: 1})
	suite.Require().Equal(http.StatusOK, status)

	first := suite.read(conn)
	suite.Equal(uint64(1), first.SequenceId)
	suite.Equal(servers.OrderCreated, first.Kind)
	suite.Require().NotNil(first.OrderId)
	suite.Equal(created.Id, *first.OrderId)

	second := suite.read(conn)
	suite.Equal(uint64(2), second.SequenceId)
	suite.Equal(servers.OrderStatusChanged, second.Kind)
	suite.Equal("PROCESSING", *second.NewStatus)
}

func (suite *HTTPServerTestSuite) TestPushChannelReplaysAfterReconnect() {
	for range 3 {
		suite.createOrder(suite.customerToken, servers.NewOrder{TotalAmount: "5.00", PaymentMethod: servers.COD})
	}

	conn, _, err := suite.dial(suite.operatorToken, 1)
	suite.Require().NoError(err)
	defer conn.CloseNow()

	suite.Equal(uint64(2), suite.read(conn).SequenceId)
	suite.Equal(uint64(3), suite.read(conn).SequenceId)

	suite.createOrder(suite.customerToken, servers.NewOrder{TotalAmount: "5.00", PaymentMethod: servers.COD})
	suite.Equal(uint64(4), suite.read(conn).SequenceId)
}

func (suite *HTTPServerTestSuite) TestPushChannelReportsGap() {
	suite.createOrder(suite.customerToken, servers.NewOrder{TotalAmount: "5.00", PaymentMethod: servers.COD})

	conn, _, err := suite.dial(suite.operatorToken, 7)
	suite.Require().NoError(err)
	defer conn.CloseNow()

	msg := suite.read(conn)
	suite.Equal(servers.ResyncRequired, msg.Kind)
	suite.Equal(uint64(1), msg.SequenceId)
}

func (suite *HTTPServerTestSuite) TestPushChannelRejectsNonOperators() {
	_, resp, err := suite.dial(suite.customerToken, 0)
	suite.Require().Error(err)
	suite.Require().NotNil(resp)
	suite.Equal(http.StatusForbidden, resp.StatusCode)

	_, resp, err = suite.dial("garbage", 0)
	suite.Require().Error(err)
	suite.Require().NotNil(resp)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (suite *HTTPServerTestSuite) TestPushSessionIsRemovedWhenClientLeaves() {
	conn, _, err := suite.dial(suite.operatorToken, 0)
	suite.Require().NoError(err)

	suite.Eventually(func() bool { return suite.registry.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	suite.Require().NoError(conn.Close(websocket.StatusNormalClosure, "bye"))

	suite.Eventually(func() bool { return suite.registry.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}
