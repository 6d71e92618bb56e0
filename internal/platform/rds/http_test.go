package rds

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/imamik/dbprov/internal/config"
)

// fakeAWS serves RDS and EC2 query-protocol requests, routed by Action.
type fakeAWS struct {
	mu       sync.Mutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	calls    map[string]int
	requests []http.Request
}

func newFakeAWS() *fakeAWS {
	return &fakeAWS{
		handlers: map[string]func(w http.ResponseWriter, r *http.Request){},
		calls:    map[string]int{},
	}
}

func (f *fakeAWS) on(action string, h func(w http.ResponseWriter, r *http.Request)) {
	f.handlers[action] = h
}

func (f *fakeAWS) count(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[action]
}

func (f *fakeAWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	action := r.PostForm.Get("Action")

	f.mu.Lock()
	f.calls[action]++
	h, ok := f.handlers[action]
	f.mu.Unlock()

	if !ok {
		http.Error(w, "unexpected action "+action, http.StatusNotImplemented)
		return
	}
	h(w, r)
}

// testClient creates a Client backed by a test HTTP server. SDK-level
// retries are disabled so only the client's own throttling retry applies.
func testClient(t *testing.T, fake *fakeAWS) *Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg := aws.Config{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		BaseEndpoint: aws.String(server.URL),
		HTTPClient:   server.Client(),
		Retryer:      func() aws.Retryer { return aws.NopRetryer{} },
	}
	return NewClientFromAWSConfig(cfg, WithTimeouts(config.TestTimeouts()))
}

func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

// rdsResult wraps an RDS query-protocol result element.
func rdsResult(action, inner string) string {
	return fmt.Sprintf(`<%[1]sResponse xmlns="http://rds.amazonaws.com/doc/2014-10-31/">
  <%[1]sResult>%[2]s</%[1]sResult>
  <ResponseMetadata><RequestId>req-1</RequestId></ResponseMetadata>
</%[1]sResponse>`, action, inner)
}

func rdsError(w http.ResponseWriter, status int, code, message string) {
	xmlResponse(w, status, fmt.Sprintf(`<ErrorResponse xmlns="http://rds.amazonaws.com/doc/2014-10-31/">
  <Error><Type>Sender</Type><Code>%s</Code><Message>%s</Message></Error>
  <RequestId>req-1</RequestId>
</ErrorResponse>`, code, message))
}

// ec2Result wraps an EC2 query-protocol response body.
func ec2Result(action, inner string) string {
	return fmt.Sprintf(`<%[1]sResponse xmlns="http://ec2.amazonaws.com/doc/2016-11-15/">
  <requestId>req-1</requestId>%[2]s
</%[1]sResponse>`, action, inner)
}

func ec2Error(w http.ResponseWriter, status int, code, message string) {
	xmlResponse(w, status, fmt.Sprintf(`<Response><Errors><Error><Code>%s</Code><Message>%s</Message></Error></Errors><RequestID>req-1</RequestID></Response>`, code, message))
}

func clusterXML(id, status string) string {
	return fmt.Sprintf(`<DBCluster>
  <DBClusterIdentifier>%[1]s</DBClusterIdentifier>
  <DBClusterArn>arn:aws:rds:us-east-1:123456789012:cluster:%[1]s</DBClusterArn>
  <Status>%[2]s</Status>
  <Endpoint>%[1]s.cluster-abc.us-east-1.rds.amazonaws.com</Endpoint>
  <ReaderEndpoint>%[1]s.cluster-ro-abc.us-east-1.rds.amazonaws.com</ReaderEndpoint>
  <Port>5432</Port>
  <Engine>postgres</Engine>
  <EngineVersion>16.3</EngineVersion>
  <AllocatedStorage>100</AllocatedStorage>
  <StorageType>io1</StorageType>
  <Iops>1000</Iops>
  <DBClusterInstanceClass>db.m5d.large</DBClusterInstanceClass>
  <DBSubnetGroup>dbprov-subnets</DBSubnetGroup>
  <PubliclyAccessible>true</PubliclyAccessible>
  <MasterUsername>dbprov</MasterUsername>
  <VpcSecurityGroups>
    <VpcSecurityGroupMembership><VpcSecurityGroupId>sg-1</VpcSecurityGroupId><Status>active</Status></VpcSecurityGroupMembership>
  </VpcSecurityGroups>
  <TagList><Tag><Key>dbprov.io/managed-by</Key><Value>dbprov</Value></Tag></TagList>
</DBCluster>`, id, status)
}
