package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"

	"stock_tracker_backend/models"
)

// MessageService sends text messages to DingTalk robot webhooks
type MessageService struct {
	client *http.Client
}

// NewMessageService creates a MessageService with a 10s request timeout
func NewMessageService() *MessageService {
	return &MessageService{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// dingTalkMessage is the webhook payload for a plain text message
type dingTalkMessage struct {
	MsgType string           `json:"msgtype"`
	Text    dingTalkTextBody `json:"text"`
}

type dingTalkTextBody struct {
	Content string `json:"content"`
}

// dingTalkResponse is the webhook response envelope
type dingTalkResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// SendDingTalk posts a text message to the given webhook URL
func (s *MessageService) SendDingTalk(body, webhook string) error {
	payload, err := json.Marshal(dingTalkMessage{
		MsgType: "text",
		Text:    dingTalkTextBody{Content: body},
	})
	if err != nil {
		return fmt.Errorf("marshal dingtalk message: %w", err)
	}

	resp, err := s.client.Post(webhook, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post dingtalk message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dingtalk webhook returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read dingtalk response: %w", err)
	}
	var result dingTalkResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("parse dingtalk response: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("dingtalk webhook error %d: %s", result.ErrCode, result.ErrMsg)
	}
	return nil
}

// RobotService looks up notification robots in the database
type RobotService struct {
	db *gorm.DB
}

// NewRobotService creates a RobotService
func NewRobotService(db *gorm.DB) *RobotService {
	return &RobotService{db: db}
}

// GetListByType returns active robots of the given type
func (s *RobotService) GetListByType(robotType int) ([]models.Robot, error) {
	var robots []models.Robot
	if err := s.db.Where("type = ? AND is_active = ?", robotType, true).
		Find(&robots).Error; err != nil {
		return nil, fmt.Errorf("query robots: %w", err)
	}
	return robots, nil
}

// GetByID returns a robot by its ID
func (s *RobotService) GetByID(id uint) (*models.Robot, error) {
	var robot models.Robot
	if err := s.db.First(&robot, id).Error; err != nil {
		return nil, err
	}
	return &robot, nil
}
