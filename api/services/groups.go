package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/planpal/planpal-services/db"
	"github.com/planpal/planpal-services/internal/authz"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog"
)

// GetGroupsService retrieves every group the authenticated user owns or belongs to.
func (svc *Service) GetGroupsService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	groups, err := svc.DB.GetUserGroups(r.Context(), claims.Subject)
	if err != nil {
		handleStoreErr(w, logger, err, "Groups not found")
		return
	}

	// Ensure groups is not nil, return an empty slice if no groups are found
	if groups == nil {
		groups = []models.Group{}
	}

	logger.Info().Int("group_count", len(groups)).Msg("Successfully retrieved groups")
	WriteResponse(w, http.StatusOK, groups)
}

// CreateGroupService creates a group owned by the authenticated user.
// Members may be given by user id or email address.
func (svc *Service) CreateGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		logger.Warn().Msg("Unauthorized request: missing claims")
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.GroupRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if blank(req.Name) {
		WriteMessage(w, http.StatusBadRequest, "Group name is required!")
		return
	}

	// The owner is always the caller
	if req.Owner != "" && req.Owner != claims.Subject {
		logger.Warn().Str("owner", req.Owner).Str("requested_by", claims.Subject).Msg("Access denied: owner mismatch")
		WriteMessage(w, http.StatusForbidden, "Owner must be the signed-in user")
		return
	}

	members, err := svc.resolveMembers(r.Context(), claims.Subject, req.Members)
	if err != nil {
		var invalid *invalidMemberError
		if errors.As(err, &invalid) {
			WriteMessage(w, http.StatusBadRequest, invalid.Error())
			return
		}
		handleStoreErr(w, logger, err, "")
		return
	}

	group, err := svc.DB.CreateGroup(r.Context(), models.Group{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Owner:       claims.Subject,
		Members:     members,
	})
	if err != nil {
		handleStoreErr(w, logger, err, "")
		return
	}

	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.User)
	}
	svc.publish(r.Context(), logger, models.Activity{
		Type:      models.ActivityGroupCreated,
		GroupID:   group.ID,
		GroupName: group.Name,
		ActorID:   claims.Subject,
		Members:   memberIDs,
	})

	logger.Info().Str("group_id", group.ID).Msg("Group created successfully")

	location := fmt.Sprintf("%s/%s", r.URL.Path, group.ID)
	WriteResponse(w, http.StatusCreated, group, location)
}

// GetGroupService retrieves a single group the user belongs to.
func (svc *Service) GetGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	group, ok := svc.loadGroup(w, r, logger)
	if !ok {
		return
	}

	if !authz.IsMember(claims.Subject, *group) {
		logger.Warn().Str("group_id", group.ID).Str("requested_by", claims.Subject).Msg("Access denied: user not in group")
		WriteMessage(w, http.StatusForbidden, "You are not a member of this group")
		return
	}

	WriteResponse(w, http.StatusOK, group)
}

// UpdateGroupService renames or re-describes a group. Owners and admins only.
func (svc *Service) UpdateGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.GroupRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn().Err(err).Msg("Invalid update request payload")
		HandleErrResponse(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	if blank(req.Name) {
		WriteMessage(w, http.StatusBadRequest, "Group name cannot be empty")
		return
	}

	group, ok := svc.loadGroup(w, r, logger)
	if !ok {
		return
	}

	if !authz.CanManageGroup(claims.Subject, *group) {
		logger.Warn().Str("group_id", group.ID).Str("requested_by", claims.Subject).Msg("Access denied: not a group admin")
		WriteMessage(w, http.StatusForbidden, "Only group admins can edit this group")
		return
	}

	updated, err := svc.DB.UpdateGroup(r.Context(), group.ID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		handleStoreErr(w, logger, err, "Group not found")
		return
	}

	logger.Info().Str("group_id", updated.ID).Msg("Group updated successfully")
	WriteResponse(w, http.StatusOK, updated)
}

// DeleteGroupService deletes a group and its events. Owner only.
func (svc *Service) DeleteGroupService(w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	claims, ok := claimsFrom(r)
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	group, ok := svc.loadGroup(w, r, logger)
	if !ok {
		return
	}

	if !authz.CanDeleteGroup(claims.Subject, *group) {
		logger.Warn().Str("group_id", group.ID).Str("requested_by", claims.Subject).Msg("Access denied: not the group owner")
		WriteMessage(w, http.StatusForbidden, "Only the group owner can delete this group")
		return
	}

	if err := svc.DB.DeleteGroup(r.Context(), group.ID); err != nil {
		handleStoreErr(w, logger, err, "Group not found")
		return
	}

	svc.publish(r.Context(), logger, models.Activity{
		Type:      models.ActivityGroupDeleted,
		GroupID:   group.ID,
		GroupName: group.Name,
		ActorID:   claims.Subject,
	})

	logger.Info().Str("group_id", group.ID).Msg("Group deleted successfully")
	WriteMessage(w, http.StatusOK, "Group deleted successfully")
}

type invalidMemberError struct {
	member string
	reason string
}

func (e *invalidMemberError) Error() string {
	return fmt.Sprintf("Member %s %s", e.member, e.reason)
}

// resolveMembers turns emails into user ids, drops the owner and duplicates
// and defaults roles to member.
func (svc *Service) resolveMembers(ctx context.Context, ownerID string, requested []models.Member) ([]models.Member, error) {
	members := []models.Member{}
	seen := map[string]bool{ownerID: true}

	for _, m := range requested {
		ref := strings.TrimSpace(m.User)
		if ref == "" || ref == ownerID {
			continue
		}

		role := m.Role
		if role == "" {
			role = models.RoleMember
		}
		if role != models.RoleMember && role != models.RoleAdmin {
			return nil, &invalidMemberError{member: ref, reason: "has an unknown role"}
		}

		var user *models.User
		var err error
		if strings.Contains(ref, "@") {
			user, err = svc.DB.GetUserByEmail(ctx, ref)
		} else {
			user, err = svc.DB.GetUser(ctx, ref)
		}
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, &invalidMemberError{member: ref, reason: "is not a registered user"}
			}
			return nil, err
		}

		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		members = append(members, models.Member{User: user.ID, Role: role})
	}
	return members, nil
}

// loadGroup fetches the group named by the group-id route variable, writing
// the error response itself when it cannot.
func (svc *Service) loadGroup(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger) (*models.Group, bool) {
	groupID := mux.Vars(r)["group-id"]

	group, err := svc.DB.GetGroup(r.Context(), groupID)
	if err != nil {
		handleStoreErr(w, logger, err, "Group not found")
		return nil, false
	}
	return group, true
}

// publish sends activity without failing the request; the write already
// happened.
func (svc *Service) publish(ctx context.Context, logger *zerolog.Logger, activity models.Activity) {
	if svc.Publisher == nil {
		return
	}
	activity.Timestamp = time.Now().UTC().Unix()
	if err := svc.Publisher.Notify(ctx, activity); err != nil {
		logger.Error().Err(err).Str("type", activity.Type).Msg("Failed to publish activity")
	}
}
